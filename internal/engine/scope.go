// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package engine

import (
	"runtime"

	"github.com/d99kris/cpuusage/internal/buffer"
	"github.com/d99kris/cpuusage/internal/clock"
)

// Span is the scoped-lifetime helper spec.md §4.6 describes: it emits a
// begin event immediately and returns a function that emits the
// matching end event, for pairing around a lexical region the way a
// defer would. If addr is zero the caller's own program counter is
// used, mirroring __builtin_return_address(0) in the original.
//
// Span is the Go-native convenience surface (spec.md §4.1's "callable
// C surface exported by the library" is the cgo-facing equivalent in
// cmd/libcuprof). Go host code that calls Span directly has no
// pthread_t to report, so thread is always clock.ThreadID(0). Under
// main_thread_only, Span's events are therefore kept only when
// ThreadID(0) is the registered main thread; with a main thread
// registered from a real pthread_t (cmd/libcuprof) they are dropped.
func (e *Engine) Span(addr uintptr) func() {
	if addr == 0 {
		if pc, _, _, ok := runtime.Caller(1); ok {
			addr = pc
		}
	}

	const thread = clock.ThreadID(0)
	e.LogEvent(addr, buffer.Enter, thread)
	return func() {
		e.LogEvent(addr, buffer.Exit, thread)
	}
}
