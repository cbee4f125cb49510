// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package shutdown implements a global process shutdown mechanism:
// callbacks registered during setup run once the stress run ends,
// whether it reached its cycle limit or was interrupted by a signal.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Func is the type of function run on shutdowns.
type Func func()

var (
	mu    sync.Mutex
	funcs []Func
)

// Register registers a function to be run by Run. The callbacks
// will run in the reverse order of registration.
func Register(f Func) {
	mu.Lock()
	funcs = append(funcs, f)
	mu.Unlock()
}

// Run runs callbacks added by Register, each at most once.
func Run() {
	mu.Lock()
	fns := funcs
	funcs = nil
	mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Signals are the signals that end a run cleanly.
var Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Context returns a context derived from parent that is canceled
// when the process receives one of Signals. The returned stop
// function releases the signal registration.
func Context(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
