// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cycle drives swapstress's heap and shared-memory drivers in
// discrete, fixed-duration ticks. Each tick, every enabled driver may
// allocate one block, stress a run of live blocks, and free one live
// block, according to its configured intervals. Ticks run strictly in
// sequence; a slow tick delays the ones after it.
package cycle

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/log"
	"github.com/grailbio/swapstress/stress"
	"github.com/grailbio/swapstress/stress/slot"
)

// Driver performs one memory subsystem's actions on its slot table.
type Driver struct {
	Config DriverConfig
	Table  *slot.Table
}

// NewDriver returns a driver whose table holds up to
// config.MaxBlocks blocks from alloc.
func NewDriver(alloc stress.Allocator, config DriverConfig, r *rand.Rand) *Driver {
	return &Driver{
		Config: config,
		Table:  slot.New(alloc, config.MaxBlocks, config.BlockPages, r),
	}
}

// Step performs the driver's actions due in the given cycle. It
// returns an error only when the run must end: an integrity
// violation, an attach or detach failure, or an allocation failure
// the driver does not tolerate.
func (d *Driver) Step(cycle int) error {
	var (
		t    = d.Table
		name = t.Name()
		size = humanize.IBytes(uint64(t.Pages()) * stress.PageSize)
	)
	if cycle%d.Config.AllocEvery == 0 {
		if t.Full() {
			log.Printf("%s: already holding all %d blocks allowed", name, t.Cap())
		} else if i, err := t.Alloc(); err == nil {
			log.Printf("%s: allocated slot %d, holding %d of %d blocks of %s", name, i, t.Live(), t.Cap(), size)
		} else if errors.Is(errors.OOM, err) && !errors.IsFatal(err) && d.Config.Tolerate {
			log.Printf("%s: allocation FAILED, holding %d of %d blocks: %v", name, t.Live(), t.Cap(), err)
		} else {
			return err
		}
	}
	if d.Config.StressEvery > 0 && cycle%d.Config.StressEvery == 0 {
		if t.Live() == 0 {
			log.Printf("%s: no blocks to stress yet", name)
		} else {
			touched, err := t.Stress(d.Config.StressFraction)
			for _, i := range touched {
				log.Debug.Printf("%s: stressed slot %d", name, i)
			}
			if err != nil {
				return err
			}
			log.Printf("%s: stressed %d of %d blocks", name, len(touched), t.Live())
		}
	}
	if t.Live() > 0 && d.Config.FreeEvery > 0 && cycle%d.Config.FreeEvery == 0 {
		i, err := t.Free()
		if err != nil {
			return err
		}
		log.Printf("%s: freed slot %d, holding %d of %d blocks", name, i, t.Live(), t.Cap())
	}
	return nil
}

// Scheduler runs cycles over a set of drivers.
type Scheduler struct {
	Config  Config
	Drivers []*Driver

	// Report, if set, returns a line describing host memory. It is
	// called every Config.ReportEvery cycles; its failures are logged
	// and otherwise ignored.
	Report func(context.Context) (string, error)

	// Sleep waits for the given duration between cycles, returning
	// early with an error if the context is done.
	Sleep func(context.Context, time.Duration) error

	cycle int
}

// New validates config and returns a scheduler with a driver for
// each enabled subsystem: heap first, then shm. Both drivers draw
// from r.
func New(config Config, heap, shm stress.Allocator, r *rand.Rand) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{Config: config, Sleep: sleep}
	if config.Heap.Enabled() {
		s.Drivers = append(s.Drivers, NewDriver(heap, config.Heap, r))
	}
	if config.Shm.Enabled() {
		s.Drivers = append(s.Drivers, NewDriver(shm, config.Shm, r))
	}
	return s, nil
}

// Cycle returns the number of the last completed cycle.
func (s *Scheduler) Cycle() int { return s.cycle }

// Run runs cycles from 1 until the configured cycle limit is reached
// or ctx is done. Cancellation ends the run with an errors.Canceled
// error between ticks; a tick in progress is never interrupted.
func (s *Scheduler) Run(ctx context.Context) error {
	for cycle := 1; s.Config.Cycles == 0 || cycle <= s.Config.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return errors.E(fmt.Sprintf("stopped before cycle %d", cycle), err)
		}
		if err := s.Tick(ctx, cycle); err != nil {
			return errors.E(fmt.Sprintf("cycle %d", cycle), err)
		}
		s.cycle = cycle
		if cycle == s.Config.Cycles {
			break
		}
		if err := s.Sleep(ctx, s.Config.Tick); err != nil {
			return errors.E(fmt.Sprintf("stopped after cycle %d", cycle), err)
		}
	}
	return nil
}

// Tick runs a single cycle: each driver's step, in order, followed by
// a memory report when one is due.
func (s *Scheduler) Tick(ctx context.Context, cycle int) error {
	log.Printf("cycle #%d", cycle)
	for _, d := range s.Drivers {
		if err := d.Step(cycle); err != nil {
			return err
		}
	}
	if s.Report != nil && s.Config.ReportEvery > 0 && cycle%s.Config.ReportEvery == 0 {
		if msg, err := s.Report(ctx); err != nil {
			log.Error.Printf("memory report: %v", err)
		} else {
			log.Print(msg)
		}
	}
	return nil
}

// Drain releases every live block of every driver. It is meant to
// run once the scheduler has stopped.
func (s *Scheduler) Drain() error {
	for _, d := range s.Drivers {
		n := d.Table.Live()
		if err := d.Table.Drain(); err != nil {
			return err
		}
		if n > 0 {
			log.Printf("%s: released %d blocks", d.Table.Name(), n)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
