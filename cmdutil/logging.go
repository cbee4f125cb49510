// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cmdutil provides utility routines for implementing command line
// tools.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"v.io/x/lib/vlog"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Fatalf mirrors log.Fatalf with no prefix and no timestamp.
func Fatalf(format string, args ...interface{}) {
	fatal(fmt.Sprintf(format, args...))
}

// Fatal mirrors log.Fatal with no prefix and no timestamp.
func Fatal(args ...interface{}) {
	fatal(fmt.Sprint(args...))
}

func fatal(m string) {
	fmt.Fprint(stderr, strings.TrimSuffix(m, "\n")+"\n")
	vlog.FlushLog()
	exit(1)
}
