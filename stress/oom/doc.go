// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package oom contains the allocators swapstress uses to pressure a
// host's memory: private anonymous mappings (the heap driver) and
// System V shared-memory segments (the shm driver).
package oom
