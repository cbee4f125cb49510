// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package log_test

import (
	"bytes"
	"flag"
	"os"
	"testing"

	"github.com/grailbio/swapstress/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutputter struct {
	level    log.Level
	messages map[log.Level][]string
}

func newTestOutputter(level log.Level) *testOutputter {
	return &testOutputter{level, make(map[log.Level][]string)}
}

func (t *testOutputter) Empty() bool {
	for _, m := range t.messages {
		if len(m) != 0 {
			return false
		}
	}
	return true
}

func (t *testOutputter) Next(level log.Level) string {
	if len(t.messages[level]) == 0 {
		return ""
	}
	var m string
	m, t.messages[level] = t.messages[level][0], t.messages[level][1:]
	return m
}

func (t *testOutputter) Level() log.Level {
	return t.level
}

func (t *testOutputter) Output(calldepth int, level log.Level, s string) error {
	t.messages[level] = append(t.messages[level], s)
	return nil
}

func TestLog(t *testing.T) {
	out := newTestOutputter(log.Info)
	defer log.SetOutputter(log.SetOutputter(out))
	log.Printf("cycle #%d", 3)
	assert.Equal(t, "cycle #3", out.Next(log.Info))
	log.Error.Print(1, 2, 3)
	assert.Equal(t, "1 2 3", out.Next(log.Error))
	log.Debug.Print("x")
	assert.Equal(t, "", out.Next(log.Debug))
	assert.True(t, out.Empty(), "extra messages")
}

func TestStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log.SetOutput(&stdout, &stderr)
	defer log.SetOutput(os.Stdout, os.Stderr)
	defer log.SetLevel(log.Info)

	log.Print("allocated 1 of 4 blocks")
	log.Error.Print("allocation failed")
	log.Debug.Print("invisible")
	assert.Equal(t, "allocated 1 of 4 blocks\n", stdout.String())
	assert.Equal(t, "allocation failed\n", stderr.String())

	log.SetLevel(log.Debug)
	log.Debug.Printf("stressing slot %d", 2)
	assert.Equal(t, "allocated 1 of 4 blocks\nstressing slot 2\n", stdout.String())
}

func TestFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	log.AddFlags(fs)
	defer log.SetLevel(log.Info)
	require.NoError(t, fs.Parse([]string{"-log", "debug"}))
	assert.True(t, log.At(log.Debug))
	assert.Error(t, fs.Parse([]string{"-log", "loud"}))
}

func ExamplePrint() {
	log.SetOutput(os.Stdout, os.Stdout)
	log.Print("cycle #1")
	log.Error.Print("allocation failed")
	log.Debug.Print("invisible")

	// Output:
	// cycle #1
	// allocation failed
}
