// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build linux || (darwin && !ios)

package oom

import (
	"fmt"

	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress"
	"golang.org/x/sys/unix"
)

// Shm allocates blocks as private System V shared-memory segments.
// A segment is attached to the process only while it is touched.
type Shm struct {
	// Mode holds the permission bits of new segments; 0 means 0600.
	Mode int
}

// Name implements stress.Allocator.
func (Shm) Name() string { return "shm" }

// Alloc implements stress.Allocator.
func (s Shm) Alloc(pages int) (stress.Block, error) {
	mode := s.Mode
	if mode == 0 {
		mode = 0600
	}
	size := pages * stress.PageSize
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|mode)
	if err != nil {
		return nil, allocError(fmt.Sprintf("shmget %d bytes", size), err)
	}
	return &Segment{ID: id, pages: pages}, nil
}

// Segment is a System V shared-memory segment created by Shm.
type Segment struct {
	// ID is the kernel's identifier for the segment. Zero is a valid
	// identifier.
	ID    int
	pages int
}

// Touch attaches the segment, touches each of its pages, and
// detaches it again. Attach and detach failures are fatal.
func (s *Segment) Touch() (err error) {
	b, err := unix.SysvShmAttach(s.ID, 0, 0)
	if err != nil {
		return errors.E(errors.Fatal, fmt.Sprintf("attach segment %d", s.ID), err)
	}
	defer func() {
		if derr := unix.SysvShmDetach(b); derr != nil && err == nil {
			err = errors.E(errors.Fatal, fmt.Sprintf("detach segment %d", s.ID), derr)
		}
	}()
	return stress.TouchPages(b, s.pages)
}

// Release marks the segment for destruction; the kernel removes it
// once no process has it attached.
func (s *Segment) Release() error {
	if _, err := unix.SysvShmCtl(s.ID, unix.IPC_RMID, nil); err != nil {
		return errors.E(fmt.Sprintf("remove segment %d", s.ID), err)
	}
	return nil
}
