// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

//go:build unix

package oom

import (
	stderrors "errors"

	"github.com/grailbio/swapstress/errors"
	"golang.org/x/sys/unix"
)

// allocError classifies an error returned by mmap or shmget. Only
// errnos that mean the kernel is out of memory or of segments are
// errors.OOM; anything else is a fatal errors.Invalid.
func allocError(op string, err error) error {
	switch {
	case errors.Is(errors.OOM, err):
		return errors.E(op, err)
	case isErrno(err, unix.ENOMEM, unix.EAGAIN, unix.ENOSPC):
		return errors.E(errors.OOM, op, err)
	default:
		return errors.E(errors.Invalid, errors.Fatal, op, err)
	}
}

func isErrno(err error, errnos ...unix.Errno) bool {
	for _, errno := range errnos {
		if stderrors.Is(err, errno) {
			return true
		}
	}
	return false
}
