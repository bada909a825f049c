// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package spinlock implements the busy-wait test-and-set guard the
// engine uses to protect the event buffer. A plain mutex is avoidable
// here on purpose: start/stop may run from a signal handler path
// (spec.md §4.1, §5), and a busy spin never blocks on the runtime's
// futex/semaphore machinery the way sync.Mutex can, which keeps the
// hot path safe to re-enter from that context.
package spinlock

import "sync/atomic"

// Flag is a test-and-set lock. The zero value is unlocked.
type Flag struct {
	state atomic.Bool
}

// Lock spins until the flag can be claimed. No syscall is made in the
// uncontended case.
func (f *Flag) Lock() {
	for !f.state.CompareAndSwap(false, true) {
	}
}

// Unlock releases the flag. Unlock of an unlocked Flag is a bug in the
// caller and is not guarded against, matching the original's
// atomic_flag.clear() semantics.
func (f *Flag) Unlock() {
	f.state.Store(false)
}
