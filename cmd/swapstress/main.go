// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Command swapstress drives a host into memory exhaustion by allocating
// heap blocks and System V shared-memory segments on a fixed tick,
// touching their pages to force residency and freeing them at random.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/grailbio/swapstress/cmdutil"
	"github.com/grailbio/swapstress/diagnostic/memstat"
	"github.com/grailbio/swapstress/errors"
	"github.com/grailbio/swapstress/log"
	"github.com/grailbio/swapstress/must"
	"github.com/grailbio/swapstress/shutdown"
	"github.com/grailbio/swapstress/stress"
	"github.com/grailbio/swapstress/stress/cycle"
	"github.com/grailbio/swapstress/stress/oom"
	"v.io/x/lib/cmdline"
)

type driverFlags struct {
	blockPages, maxBlocks                        int
	allocEvery, freeEvery, stressEvery, fraction int
}

func (f *driverFlags) register(fs *flag.FlagSet, name string) {
	def := cycle.DefaultDriverConfig()
	fs.IntVar(&f.blockPages, name+"-block-size", def.BlockPages, "pages per "+name+" block")
	fs.IntVar(&f.maxBlocks, name+"-blocks", def.MaxBlocks, "maximum number of live "+name+" blocks; 0 disables the "+name+" driver")
	fs.IntVar(&f.allocEvery, name+"-alloc-every", def.AllocEvery, "allocate a "+name+" block every n ticks")
	fs.IntVar(&f.freeEvery, name+"-free-every", def.FreeEvery, "free a random "+name+" block every n ticks; 0 never frees")
	fs.IntVar(&f.stressEvery, name+"-stress-every", def.StressEvery, "touch live "+name+" blocks every n ticks; 0 never stresses")
	fs.IntVar(&f.fraction, name+"-stress-fraction", def.StressFraction, "stress fewer than live/n "+name+" blocks at once")
}

func (f *driverFlags) config(tolerate bool) cycle.DriverConfig {
	return cycle.DriverConfig{
		BlockPages:     f.blockPages,
		MaxBlocks:      f.maxBlocks,
		AllocEvery:     f.allocEvery,
		FreeEvery:      f.freeEvery,
		StressEvery:    f.stressEvery,
		StressFraction: f.fraction,
		Tolerate:       tolerate,
	}
}

type flags struct {
	heap, shm   driverFlags
	tickMillis  int
	cycles      int
	reportEvery int
	tolerate    bool
	seed        int64
	cleanup     bool
	vlog        bool
}

// The allocators behind the heap and shm drivers.
var (
	heapAllocator stress.Allocator = oom.Heap{}
	shmAllocator  stress.Allocator = oom.Shm{}
)

func (f *flags) config() cycle.Config {
	c := cycle.DefaultConfig()
	c.Tick = time.Duration(f.tickMillis) * time.Millisecond
	c.Cycles = f.cycles
	c.ReportEvery = f.reportEvery
	c.Heap = f.heap.config(f.tolerate)
	c.Shm = f.shm.config(f.tolerate)
	return c
}

func newCmdRoot(f *flags) *cmdline.Command {
	cmd := &cmdline.Command{
		Runner: cmdutil.RunnerFunc(func(env *cmdline.Env, args []string) error {
			return run(env, args, f)
		}),
		Name:  "swapstress",
		Short: "Exhausts host memory to exercise swap and the OOM killer",
		Long: `
Command swapstress allocates memory from up to two sources, private heap
mappings and System V shared-memory segments, one tick at a time. On each
tick an enabled source may allocate a block, touch every page of a random
run of its live blocks, and free a random live block, each on its own
interval. The run continues until the cycle limit is reached or the
process is interrupted.

At least one of -heap-blocks and -shm-blocks must be positive.

Example:

  swapstress -heap-blocks 1024 -heap-block-size 2560 -heap-stress-every 5 -tick 200
`,
	}
	fs := &cmd.Flags
	f.heap.register(fs, "heap")
	f.shm.register(fs, "shm")
	fs.IntVar(&f.tickMillis, "tick", 1000, "milliseconds between cycles")
	fs.IntVar(&f.cycles, "cycles", 0, "stop after n cycles; 0 runs until interrupted")
	fs.IntVar(&f.reportEvery, "report-every", 0, "log host memory usage every n cycles; 0 never reports")
	fs.BoolVar(&f.tolerate, "tolerate", false, "report allocation failures instead of exiting")
	fs.Int64Var(&f.seed, "seed", 0, "seed for random selections; 0 seeds from the clock")
	fs.BoolVar(&f.cleanup, "cleanup", false, "release live blocks before exiting")
	fs.BoolVar(&f.vlog, "vlog", false, "log through vlog, as configured by -v, -log_dir and -logtostderr, instead of stdout and stderr")
	return cmd
}

func run(env *cmdline.Env, args []string, f *flags) error {
	if len(args) != 0 {
		return env.UsageErrorf("unexpected arguments %q", args)
	}
	log.SetOutput(env.Stdout, env.Stderr)
	if f.vlog {
		prev := log.SetOutputter(cmdutil.VlogOutputter{})
		shutdown.Register(func() { log.SetOutputter(prev) })
	}
	config := f.config()
	if !config.Heap.Enabled() && !config.Shm.Enabled() {
		return env.UsageErrorf("no driver enabled: set -heap-blocks or -shm-blocks")
	}
	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug.Printf("seed %d", seed)
	s, err := cycle.New(config, heapAllocator, shmAllocator, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	s.Report = memstat.Report
	if f.cleanup {
		shutdown.Register(func() {
			if err := s.Drain(); err != nil {
				log.Error.Printf("cleanup: %v", err)
			}
		})
	}
	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	err = s.Run(ctx)
	interrupted := errors.Is(errors.Canceled, err)
	if err != nil && !interrupted {
		return err
	}
	for _, d := range s.Drivers {
		if err := d.Table.Check(); err != nil {
			return errors.E(fmt.Sprintf("after cycle %d", s.Cycle()), err)
		}
	}
	if interrupted {
		log.Printf("interrupted after %d cycles", s.Cycle())
	} else {
		log.Printf("completed %d cycles", s.Cycle())
	}
	return nil
}

func main() {
	must.Func = func(depth int, v ...interface{}) { cmdutil.Fatal(v...) }
	log.AddFlags(flag.CommandLine)
	cmdline.HideGlobalFlagsExcept(regexp.MustCompile(`^(log|v|log_dir|logtostderr|alsologtostderr)$`))
	cmdline.Main(newCmdRoot(new(flags)))
}
