// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmdutil_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/grailbio/swapstress/cmdutil"
	"github.com/grailbio/swapstress/log"
	"github.com/grailbio/swapstress/shutdown"
	"github.com/stretchr/testify/assert"
	"v.io/x/lib/cmdline"
)

func TestRunnerFunc(t *testing.T) {
	var (
		ran        []string
		onShutdown = func() { ran = append(ran, "shutdown") }
	)
	r := cmdutil.RunnerFunc(func(_ *cmdline.Env, args []string) error {
		ran = append(ran, args...)
		registerShutdown(onShutdown)
		return errors.New("allocation failed")
	})
	err := r.Run(cmdline.EnvFromOS(), []string{"run"})
	assert.EqualError(t, err, "allocation failed")
	assert.Equal(t, []string{"run", "shutdown"}, ran)
}

func registerShutdown(f func()) { shutdown.Register(f) }

func TestFatal(t *testing.T) {
	var (
		b    bytes.Buffer
		code = -1
	)
	defer cmdutil.SetExit(&b, func(c int) { code = c })()
	cmdutil.Fatalf("cycle %d: integrity error\n", 7)
	assert.Equal(t, "cycle 7: integrity error\n", b.String())
	assert.Equal(t, 1, code)

	b.Reset()
	cmdutil.Fatal("heap: ", "out of memory")
	assert.Equal(t, "heap: out of memory\n", b.String())
}

func TestVlogOutputter(t *testing.T) {
	prev := log.SetOutputter(cmdutil.VlogOutputter{})
	defer log.SetOutputter(prev)
	// Without -v, debug detail is dropped before it reaches vlog.
	assert.True(t, log.At(log.Info))
	assert.False(t, log.At(log.Debug))
	assert.NoError(t, log.Output(1, log.Info, "cycle #1"))
	assert.NoError(t, log.Output(1, log.Error, "heap: allocation FAILED"))
	assert.NoError(t, log.Output(1, log.Off, "dropped"))
}
