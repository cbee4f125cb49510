// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package cycle_test

import (
	"testing"
	"time"

	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/stress/cycle"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := cycle.DefaultConfig()
	assert.NoError(t, c.Validate())
	assert.Equal(t, time.Second, c.Tick)
	assert.Equal(t, 256, c.Heap.BlockPages)
	assert.Equal(t, 1, c.Shm.AllocEvery)
	assert.Equal(t, 1, c.Shm.StressFraction)
	assert.False(t, c.Heap.Enabled())
	assert.False(t, c.Shm.Enabled())
}

func TestValidate(t *testing.T) {
	for _, c := range []struct {
		name   string
		modify func(*cycle.Config)
		msg    string
	}{
		{"tick", func(c *cycle.Config) { c.Tick = -time.Millisecond }, "bad tick duration -1ms"},
		{"cycles", func(c *cycle.Config) { c.Cycles = -1 }, "bad cycle limit -1"},
		{"report", func(c *cycle.Config) { c.ReportEvery = -2 }, "bad report interval -2"},
		{"blocks", func(c *cycle.Config) { c.Heap.MaxBlocks = -1 }, "heap: bad max block count -1"},
		{"pages", func(c *cycle.Config) { c.Shm.BlockPages = 0 }, "shm: bad block size 0"},
		{"alloc", func(c *cycle.Config) { c.Heap.AllocEvery = 0 }, "heap: bad allocate interval 0"},
		{"free", func(c *cycle.Config) { c.Shm.FreeEvery = -3 }, "shm: bad free interval -3"},
		{"stress", func(c *cycle.Config) { c.Heap.StressEvery = -1 }, "heap: bad stress interval -1"},
		{"fraction", func(c *cycle.Config) { c.Shm.StressFraction = 0 }, "shm: bad stress fraction 0"},
	} {
		t.Run(c.name, func(t *testing.T) {
			config := cycle.DefaultConfig()
			c.modify(&config)
			err := config.Validate()
			assert.True(t, errors.Is(errors.Invalid, err), "%v", err)
			assert.Equal(t, c.msg, errors.Recover(err).Message)
		})
	}
}
