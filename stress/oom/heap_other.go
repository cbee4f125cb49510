// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build !unix

package oom

import (
	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress"
)

// Heap is unavailable on this platform.
type Heap struct{}

// Name implements stress.Allocator.
func (Heap) Name() string { return "heap" }

// Alloc implements stress.Allocator.
func (Heap) Alloc(pages int) (stress.Block, error) {
	return nil, errors.E(errors.NotSupported, "anonymous mappings")
}
