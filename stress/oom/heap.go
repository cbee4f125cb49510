// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build unix

package oom

import (
	"fmt"

	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress"
	"golang.org/x/sys/unix"
)

// Heap allocates blocks as private anonymous mappings. Mappings are
// made without MAP_NORESERVE so that they are charged against the
// system's overcommit policy in the same way as malloc'd memory, and
// a refusal surfaces as an error instead of aborting the Go runtime.
// Fresh mappings are zero-filled and not resident until touched.
type Heap struct{}

// Name implements stress.Allocator.
func (Heap) Name() string { return "heap" }

// Alloc implements stress.Allocator.
func (Heap) Alloc(pages int) (stress.Block, error) {
	size := pages * stress.PageSize
	var (
		prot = unix.PROT_READ | unix.PROT_WRITE
		flag = unix.MAP_PRIVATE | unix.MAP_ANON
	)
	b, err := unix.Mmap(-1, 0, size, prot, flag)
	if err != nil {
		return nil, allocError(fmt.Sprintf("mmap %d bytes", size), err)
	}
	return &mapping{b: b, pages: pages}, nil
}

type mapping struct {
	b     []byte
	pages int
}

func (m *mapping) Touch() error {
	return stress.TouchPages(m.b, m.pages)
}

func (m *mapping) Release() error {
	if err := unix.Munmap(m.b); err != nil {
		return errors.E(fmt.Sprintf("munmap %d bytes", len(m.b)), err)
	}
	m.b = nil
	return nil
}
