// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package log

import (
	"flag"
	"fmt"
	"io"
	golog "log"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var (
	stdlevel = Info
	called   int32

	stdout = golog.New(os.Stdout, "", 0)
	stderr = golog.New(os.Stderr, "", 0)
)

// AddFlags adds a standard log level flag to the provided flag set.
func AddFlags(fs *flag.FlagSet) {
	if atomic.AddInt32(&called, 1) != 1 {
		Error.Printf("log.AddFlags: called twice!")
		debug.PrintStack()
		return
	}
	fs.Var(new(logFlag), "log", "set log level (off, error, info, debug)")
}

// SetOutput redirects the default outputter: narration is written to
// stdout and errors to stderr.
func SetOutput(stdoutW, stderrW io.Writer) {
	stdout.SetOutput(stdoutW)
	stderr.SetOutput(stderrW)
}

// SetLevel sets the level of the default outputter.
// It should be called once at the beginning of a program's main.
func SetLevel(level Level) {
	stdlevel = level
}

type logFlag string

func (f logFlag) String() string {
	return string(f)
}

func (f *logFlag) Set(level string) error {
	var l Level
	switch level {
	case "off":
		l = Off
	case "error":
		l = Error
	case "info":
		l = Info
	case "debug":
		l = Debug
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
	*f = logFlag(level)
	stdlevel = l
	return nil
}

// Get implements flag.Getter.
func (logFlag) Get() interface{} {
	return stdlevel
}

type stdOutputter struct{}

func (stdOutputter) Level() Level { return stdlevel }

func (stdOutputter) Output(calldepth int, level Level, s string) error {
	if stdlevel < level || level == Off {
		return nil
	}
	if level == Error {
		return stderr.Output(calldepth+1, s)
	}
	return stdout.Output(calldepth+1, s)
}
