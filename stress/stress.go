// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package stress defines the memory blocks that swapstress allocates,
// touches, and frees while driving a host toward memory exhaustion.
// Subpackages provide the allocators (oom), the fixed-capacity slot
// table that tracks live blocks (slot), and the tick scheduler that
// drives both (cycle).
package stress

import (
	"fmt"

	"github.com/grailbio/swapstress/errors"
)

// PageSize is the granularity of block sizes and of page touching.
// It is fixed rather than queried from the system so that a block of
// n pages has the same byte size everywhere.
const PageSize = 4096

// A Block is a live allocation of a fixed number of pages.
type Block interface {
	// Touch increments the first byte of every page of the block,
	// forcing the pages to be resident and dirty.
	Touch() error
	// Release returns the block's memory to the system. The block
	// may not be used after Release.
	Release() error
}

// An Allocator creates blocks from one memory subsystem.
type Allocator interface {
	// Name identifies the memory subsystem in narration, e.g. "heap".
	Name() string
	// Alloc creates a block of the given number of pages. Errors
	// that reflect the system refusing the allocation have kind
	// errors.OOM.
	Alloc(pages int) (Block, error)
}

// TouchPages increments the byte at offset p*PageSize of b for every
// page p in [0, pages). It returns an error if b is too short to hold
// the requested number of pages.
func TouchPages(b []byte, pages int) error {
	if pages < 0 || len(b) < pages*PageSize {
		return errors.E(errors.Integrity, errors.Fatal,
			fmt.Sprintf("touch %d pages of a %d-byte block", pages, len(b)))
	}
	for p := 0; p < pages; p++ {
		b[p*PageSize]++
	}
	return nil
}
