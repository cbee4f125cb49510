// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build !(linux || (darwin && !ios))

package oom

import (
	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress"
)

// Shm is unavailable on this platform: every allocation fails with
// errors.NotSupported, which is never tolerated.
type Shm struct {
	Mode int
}

// Name implements stress.Allocator.
func (Shm) Name() string { return "shm" }

// Alloc implements stress.Allocator.
func (Shm) Alloc(pages int) (stress.Block, error) {
	return nil, errors.E(errors.NotSupported, "System V shared memory")
}
