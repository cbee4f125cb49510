// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package must provides functions to express fatal assertions.
// Constructors use it for preconditions that only a programming error
// can violate; failures during a run are returned as errors.
package must

import (
	"fmt"

	"github.com/grailbio/swapstress/log"
)

// Func is the function called to report an error and interrupt execution.
// Func is passed the call depth of the caller of the must function, e.g.
// the caller of True, which can be used to annotate messages.
//
// The default implementation logs the message at the Error level and
// then panics. Binaries may replace it with one that exits instead.
var Func func(int, ...interface{}) = func(depth int, v ...interface{}) {
	s := fmt.Sprint(v...)
	// Nothing to do if output fails.
	_ = log.Output(depth+1, log.Error, s)
	panic(s)
}

// True is a no-op if the value b is true. If it is false, True
// formats a message in the manner of fmt.Sprint and calls Func.
func True(b bool, v ...interface{}) {
	if b {
		return
	}
	if len(v) == 0 {
		Func(2, "must: assertion failed")
		return
	}
	Func(2, v...)
}

// Truef is a no-op if the value x is true. If it is false, Truef
// formats a message in the manner of fmt.Sprintf and calls Func.
func Truef(x bool, format string, v ...interface{}) {
	if x {
		return
	}
	Func(2, fmt.Sprintf(format, v...))
}
