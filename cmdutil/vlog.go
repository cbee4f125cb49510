// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmdutil

import (
	"github.com/grailbio/swapstress/log"
	"v.io/x/lib/vlog"
)

// VlogOutputter implements log.Outputter backed by vlog. Debug
// messages are logged at vlog verbosity 1.
type VlogOutputter struct{}

// Level implements log.Outputter.
func (VlogOutputter) Level() log.Level {
	if vlog.V(1) {
		return log.Debug
	}
	return log.Info
}

// Output implements log.Outputter.
func (VlogOutputter) Output(calldepth int, level log.Level, s string) error {
	// vlog depth 0 is the caller's file and line, where log uses
	// depth 1, so calldepth is passed through unchanged.
	switch level {
	case log.Off:
	case log.Error:
		vlog.ErrorDepth(calldepth, s)
	case log.Info:
		vlog.InfoDepth(calldepth, s)
	default:
		vlog.VI(vlog.Level(level)).InfoDepth(calldepth, s)
	}
	return nil
}
