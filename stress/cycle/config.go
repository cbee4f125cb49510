// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cycle

import (
	"fmt"
	"time"

	"github.com/grailbio/swapstress/errors"
)

// DriverConfig configures one driver. All intervals are in ticks.
type DriverConfig struct {
	// BlockPages is the size of each block in pages.
	BlockPages int
	// MaxBlocks is the capacity of the driver's slot table. A driver
	// with no capacity is disabled.
	MaxBlocks int
	// AllocEvery allocates a block every AllocEvery ticks.
	AllocEvery int
	// FreeEvery frees a random live block every FreeEvery ticks;
	// 0 never frees.
	FreeEvery int
	// StressEvery stresses live blocks every StressEvery ticks;
	// 0 never stresses.
	StressEvery int
	// StressFraction divides the live count to bound the number of
	// blocks stressed at once.
	StressFraction int
	// Tolerate reports allocation failures instead of ending the run.
	Tolerate bool
}

// DefaultDriverConfig returns the configuration of a disabled driver
// with default block size and intervals.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		BlockPages:     256,
		AllocEvery:     1,
		StressFraction: 1,
	}
}

// Enabled tells whether the driver has any capacity.
func (c DriverConfig) Enabled() bool { return c.MaxBlocks > 0 }

func (c DriverConfig) validate(name string) error {
	for _, check := range []struct {
		ok   bool
		what string
		val  int
	}{
		{c.MaxBlocks >= 0, "max block count", c.MaxBlocks},
		{c.BlockPages > 0, "block size", c.BlockPages},
		{c.AllocEvery > 0, "allocate interval", c.AllocEvery},
		{c.FreeEvery >= 0, "free interval", c.FreeEvery},
		{c.StressEvery >= 0, "stress interval", c.StressEvery},
		{c.StressFraction > 0, "stress fraction", c.StressFraction},
	} {
		if !check.ok {
			return errors.E(errors.Invalid, fmt.Sprintf("%s: bad %s %d", name, check.what, check.val))
		}
	}
	return nil
}

// Config configures a stress run.
type Config struct {
	// Tick is the pause between cycles.
	Tick time.Duration
	// Cycles is the number of cycles to run; 0 runs until canceled.
	Cycles int
	// ReportEvery reports host memory usage every ReportEvery
	// cycles; 0 never reports.
	ReportEvery int

	Heap, Shm DriverConfig
}

// DefaultConfig returns a configuration with both drivers disabled,
// a one-second tick, and no cycle limit.
func DefaultConfig() Config {
	return Config{
		Tick: time.Second,
		Heap: DefaultDriverConfig(),
		Shm:  DefaultDriverConfig(),
	}
}

// Validate checks the configuration for values that cannot drive a
// run. Errors have kind errors.Invalid.
func (c Config) Validate() error {
	if c.Tick < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("bad tick duration %v", c.Tick))
	}
	if c.Cycles < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("bad cycle limit %d", c.Cycles))
	}
	if c.ReportEvery < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("bad report interval %d", c.ReportEvery))
	}
	if err := c.Heap.validate("heap"); err != nil {
		return err
	}
	return c.Shm.validate("shm")
}
