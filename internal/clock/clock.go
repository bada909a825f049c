// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clock provides the wall-clock and thread-identity primitives
// used on the profiler's hot path. Both must be cheap and allocation
// free: NowMicro is called once per instrumented function entry/exit.
package clock

import (
	"sync/atomic"
	"time"
)

// NowMicro returns the current wall-clock time as signed microseconds
// since the Unix epoch (seconds*1e6 + microseconds), matching the
// layout the report writer expects for the "ts" field.
func NowMicro() int64 {
	now := time.Now()
	return now.Unix()*1e6 + int64(now.Nanosecond())/1e3
}

// ThreadID is an opaque per-thread identity handle. The host language
// has no OS-thread handle exposed on the hot path (goroutines are not
// pinned to OS threads in general), so callers that need a stable
// identity across an instrumented region must supply one explicitly
// (for example the caller's pthread_t when invoked through cgo from
// native code, or a goroutine-local id threaded through by the
// instrumentation shim). ThreadID values are compared for equality
// only; their numeric value carries no other meaning.
type ThreadID uintptr

// mainThread is recorded once by engine.Activate from the loading
// goroutine/thread's perspective and compared against on every
// log_event call when main_thread_only is set.
var mainThread atomic.Uintptr

// SetMainThread records id as the reference thread for main_thread_only
// filtering. Called exactly once, from the library's load/constructor
// path.
func SetMainThread(id ThreadID) {
	mainThread.Store(uintptr(id))
}

// IsMainThread reports whether id equals the thread recorded by
// SetMainThread.
func IsMainThread(id ThreadID) bool {
	return uintptr(id) == mainThread.Load()
}
