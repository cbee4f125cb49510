// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmdutil

import (
	"sync"

	"github.com/grailbio/swapstress/log"
	"github.com/grailbio/swapstress/shutdown"
	"v.io/x/lib/cmdline"
	"v.io/x/lib/vlog"
)

var runnerOnce sync.Once

// RunnerFunc is an adapter that turns regular functions into cmdline.Runners.
type RunnerFunc func(*cmdline.Env, []string) error

// Run implements the cmdline.Runner interface method by calling f(env, args).
// It configures vlog from its flags (-v, -log_dir, -logtostderr, ...)
// beforehand, and runs the registered shutdown callbacks and flushes
// vlog afterwards, whether or not f fails.
func (f RunnerFunc) Run(env *cmdline.Env, args []string) error {
	runnerOnce.Do(func() {
		if err := vlog.ConfigureLibraryLoggerFromFlags(); err != nil {
			log.Error.Printf("vlog: %v", err)
		}
	})
	err := f(env, args)

	shutdown.Run()
	vlog.FlushLog()
	return err
}
