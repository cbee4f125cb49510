// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package stresstest provides an in-memory stress.Allocator whose
// blocks record how they were used, for testing slot tables and
// schedulers without pressuring the host.
package stresstest

import (
	"fmt"

	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress"
)

// Allocator is a stress.Allocator backed by Go byte slices.
type Allocator struct {
	name string

	// Refuse, if set, is called with the number of the allocation
	// attempt (from zero); when it returns true the allocation fails
	// with an errors.OOM error.
	Refuse func(attempt int) bool

	attempts int
	// Blocks holds every block successfully allocated, in order.
	Blocks []*Block
}

// NewAllocator returns an allocator that narrates as name.
func NewAllocator(name string) *Allocator {
	return &Allocator{name: name}
}

// RefuseAfter returns an allocator that grants n allocations and
// refuses every later one.
func RefuseAfter(name string, n int) *Allocator {
	a := NewAllocator(name)
	a.Refuse = func(attempt int) bool { return attempt >= n }
	return a
}

// Name implements stress.Allocator.
func (a *Allocator) Name() string { return a.name }

// Alloc implements stress.Allocator.
func (a *Allocator) Alloc(pages int) (stress.Block, error) {
	attempt := a.attempts
	a.attempts++
	if a.Refuse != nil && a.Refuse(attempt) {
		return nil, errors.E(errors.OOM, fmt.Sprintf("%s: allocation %d refused", a.name, attempt))
	}
	b := &Block{Pages: pages, Data: make([]byte, pages*stress.PageSize)}
	a.Blocks = append(a.Blocks, b)
	return b, nil
}

// Attempts returns the number of allocations attempted.
func (a *Allocator) Attempts() int { return a.attempts }

// Live returns the number of allocated blocks not yet released.
func (a *Allocator) Live() int {
	var n int
	for _, b := range a.Blocks {
		if !b.Released {
			n++
		}
	}
	return n
}

// Block is an in-memory stress.Block.
type Block struct {
	Pages    int
	Data     []byte
	Touches  int
	Released bool

	// TouchErr and ReleaseErr, if set, are returned by Touch and
	// Release instead of doing any work.
	TouchErr, ReleaseErr error
}

// Touch implements stress.Block.
func (b *Block) Touch() error {
	if b.Released {
		return errors.E(errors.Integrity, "touch of a released block")
	}
	if b.TouchErr != nil {
		return b.TouchErr
	}
	b.Touches++
	return stress.TouchPages(b.Data, b.Pages)
}

// Release implements stress.Block.
func (b *Block) Release() error {
	if b.Released {
		return errors.E(errors.Integrity, "block released twice")
	}
	if b.ReleaseErr != nil {
		return b.ReleaseErr
	}
	b.Released = true
	return nil
}
