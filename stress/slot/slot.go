// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package slot implements the fixed-capacity table of live blocks
// owned by each swapstress driver. A table allocates into its first
// empty slot, frees a uniformly chosen live block, and stresses a
// random run of live blocks by touching every page of each.
//
// A Table is not safe for concurrent use.
package slot

import (
	"fmt"
	"math/rand"

	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/must"
	"github.com/grailbio/swapstress/stress"
)

// Table is a fixed-capacity sequence of optional blocks. The number
// of occupied slots always equals Live, which never exceeds Cap.
type Table struct {
	alloc stress.Allocator
	pages int
	rand  *rand.Rand

	slots []stress.Block
	live  int
}

// New returns an empty table of the given capacity whose blocks are
// pages pages long and are created by alloc. Random selections are
// drawn from r.
func New(alloc stress.Allocator, capacity, pages int, r *rand.Rand) *Table {
	must.Truef(capacity >= 0 && pages > 0, "slot: capacity %d, block of %d pages", capacity, pages)
	must.True(r != nil, "slot: nil random source")
	return &Table{
		alloc: alloc,
		pages: pages,
		rand:  r,
		slots: make([]stress.Block, capacity),
	}
}

// Name returns the name of the table's allocator.
func (t *Table) Name() string { return t.alloc.Name() }

// Cap returns the table's capacity.
func (t *Table) Cap() int { return len(t.slots) }

// Live returns the number of occupied slots.
func (t *Table) Live() int { return t.live }

// Full tells whether every slot is occupied.
func (t *Table) Full() bool { return t.live >= len(t.slots) }

// Pages returns the size of the table's blocks in pages.
func (t *Table) Pages() int { return t.pages }

// Alloc allocates a block into the first empty slot, in table order,
// and returns the slot's index. Alloc must not be called on a full
// table: doing so returns a fatal errors.Integrity error. If the
// allocator refuses the block, the table is unchanged and the
// allocator's error, of kind errors.OOM, is returned.
func (t *Table) Alloc() (int, error) {
	i := t.firstEmpty()
	if i < 0 {
		return -1, errors.E(errors.Integrity, errors.Fatal,
			fmt.Sprintf("%s: no empty slot among %d with %d live", t.Name(), len(t.slots), t.live))
	}
	b, err := t.alloc.Alloc(t.pages)
	if err != nil {
		return -1, errors.E(fmt.Sprintf("%s: allocate %d pages", t.Name(), t.pages), err)
	}
	t.slots[i] = b
	t.live++
	return i, nil
}

// Free releases a live block chosen uniformly at random and returns
// the index of the slot it occupied. Free requires at least one live
// block; calling it on an empty table is a fatal errors.Precondition
// error.
func (t *Table) Free() (int, error) {
	if t.live == 0 {
		return -1, errors.E(errors.Precondition, errors.Fatal,
			fmt.Sprintf("%s: free with no live blocks", t.Name()))
	}
	n := t.rand.Intn(t.live)
	i := t.nth(n)
	if i < 0 {
		return -1, errors.E(errors.Integrity, errors.Fatal,
			fmt.Sprintf("%s: live block %d of %d not found", t.Name(), n, t.live))
	}
	if err := t.slots[i].Release(); err != nil {
		return -1, errors.E(errors.Fatal, fmt.Sprintf("%s: release slot %d", t.Name(), i), err)
	}
	t.slots[i] = nil
	t.live--
	return i, nil
}

// Stress touches every page of a random run of live blocks and
// returns the indices of the touched slots, in touch order. The run
// starts at a uniformly chosen live position and holds a number of
// blocks drawn uniformly from [0, Live/fraction). The run walks the
// table forward, skipping empty slots and wrapping from its end to
// its beginning. Stressing a table with no live blocks does nothing.
func (t *Table) Stress(fraction int) ([]int, error) {
	if fraction < 1 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("%s: stress fraction %d", t.Name(), fraction))
	}
	if t.live == 0 {
		return nil, nil
	}
	start := t.rand.Intn(t.live)
	var num int
	if bound := t.live / fraction; bound > 0 {
		num = t.rand.Intn(bound)
	}
	if num == 0 {
		return nil, nil
	}
	i := t.nth((start + num) % t.live)
	if i < 0 {
		return nil, errors.E(errors.Integrity, errors.Fatal,
			fmt.Sprintf("%s: live block %d of %d not found", t.Name(), (start+num)%t.live, t.live))
	}
	touched := make([]int, 0, num)
	for len(touched) < num {
		j := t.nextOccupied(i)
		if j < 0 {
			return touched, errors.E(errors.Integrity, errors.Fatal,
				fmt.Sprintf("%s: no live block found with %d live", t.Name(), t.live))
		}
		if err := t.slots[j].Touch(); err != nil {
			return touched, errors.E(fmt.Sprintf("%s: stress slot %d", t.Name(), j), err)
		}
		touched = append(touched, j)
		i = j + 1
	}
	return touched, nil
}

// Occupied returns the indices of the occupied slots in table order.
func (t *Table) Occupied() []int {
	occupied := make([]int, 0, t.live)
	for i, b := range t.slots {
		if b != nil {
			occupied = append(occupied, i)
		}
	}
	return occupied
}

// Drain releases every live block in table order, leaving the table
// empty. It stops at the first release failure.
func (t *Table) Drain() error {
	for i, b := range t.slots {
		if b == nil {
			continue
		}
		if err := b.Release(); err != nil {
			return errors.E(errors.Fatal, fmt.Sprintf("%s: release slot %d", t.Name(), i), err)
		}
		t.slots[i] = nil
		t.live--
	}
	return nil
}

// Check verifies that the live count agrees with the table's
// contents.
func (t *Table) Check() error {
	if n := len(t.Occupied()); n != t.live || t.live > len(t.slots) {
		return errors.E(errors.Integrity, errors.Fatal,
			fmt.Sprintf("%s: %d occupied slots, %d live, capacity %d", t.Name(), n, t.live, len(t.slots)))
	}
	return nil
}

func (t *Table) firstEmpty() int {
	for i, b := range t.slots {
		if b == nil {
			return i
		}
	}
	return -1
}

// nth returns the index of the nth (from zero) occupied slot, or -1.
func (t *Table) nth(n int) int {
	for i, b := range t.slots {
		if b == nil {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return -1
}

// nextOccupied returns the index of the first occupied slot at or
// after from, wrapping around the end of the table, or -1.
func (t *Table) nextOccupied(from int) int {
	for k := 0; k < len(t.slots); k++ {
		j := (from + k) % len(t.slots)
		if t.slots[j] != nil {
			return j
		}
	}
	return -1
}
