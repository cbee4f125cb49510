// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmdutil

import "io"

// SetExit replaces the process exit and error stream used by Fatal
// for the duration of a test.
func SetExit(w io.Writer, f func(int)) (restore func()) {
	oldStderr, oldExit := stderr, exit
	stderr, exit = w, f
	return func() { stderr, exit = oldStderr, oldExit }
}
