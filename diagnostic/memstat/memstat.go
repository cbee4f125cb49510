// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package memstat takes snapshots of host memory, swap, and process
// residency, so that a stress run can narrate how close the host is
// to exhaustion.
package memstat

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/swapstress/errors"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stat is a snapshot of memory usage. Byte counts are zero when
// unknown.
type Stat struct {
	Total, Used, Available uint64
	UsedPercent            float64

	SwapTotal, SwapUsed uint64
	SwapPercent         float64

	// RSS is the resident set size of this process.
	RSS uint64
}

// Snapshot returns the current memory usage of the host and of this
// process. Process residency is best effort: a failure to read it
// leaves RSS zero.
func Snapshot(ctx context.Context) (Stat, error) {
	var s Stat
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, errors.E("memstat: virtual memory", err)
	}
	s.Total, s.Used, s.Available, s.UsedPercent = vm.Total, vm.Used, vm.Available, vm.UsedPercent
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return s, errors.E("memstat: swap", err)
	}
	s.SwapTotal, s.SwapUsed, s.SwapPercent = sw.Total, sw.Used, sw.UsedPercent
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil {
			s.RSS = info.RSS
		}
	}
	return s, nil
}

// String renders the snapshot in IEC units on a single line.
func (s Stat) String() string {
	str := fmt.Sprintf("mem %s of %s used (%.1f%%), %s available; swap %s of %s used (%.1f%%)",
		humanize.IBytes(s.Used), humanize.IBytes(s.Total), s.UsedPercent,
		humanize.IBytes(s.Available),
		humanize.IBytes(s.SwapUsed), humanize.IBytes(s.SwapTotal), s.SwapPercent)
	if s.RSS > 0 {
		str += "; rss " + humanize.IBytes(s.RSS)
	}
	return str
}

// Report returns the rendered current snapshot.
func Report(ctx context.Context) (string, error) {
	s, err := Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}
