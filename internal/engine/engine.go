// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package engine implements the function-trace engine's lifecycle and
// hot path (spec.md §4.1, §4.2). Per spec.md §9 Design Notes, the
// engine is intrinsically process-wide: the type here is still an
// ordinary Go value so tests can construct independent instances, but
// the cgo-exported surface in cmd/libcuprof drives exactly one
// module-private instance for the life of the loaded shared library.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/d99kris/cpuusage/internal/buffer"
	"github.com/d99kris/cpuusage/internal/clock"
	"github.com/d99kris/cpuusage/internal/config"
	"github.com/d99kris/cpuusage/internal/culog"
	"github.com/d99kris/cpuusage/internal/report"
	"github.com/d99kris/cpuusage/internal/symbol"
)

// Engine is the function-trace engine's state. The zero value is not
// usable; construct with New.
type Engine struct {
	log     culog.Logger
	backend symbol.Backend

	enabled atomic.Bool
	// inflight counts LogEvent calls that have passed the enabled
	// check and may still touch buf. Stop spins until this reaches
	// zero before freeing buf, the "writer-in-progress count" spec.md
	// §9 Design Notes recommends in place of trusting a single prior
	// flag read.
	inflight atomic.Int64

	cfg config.FTE
	buf *buffer.Buffer
	sym *symbol.Cache
}

// New constructs an Engine bound to backend for symbol resolution and
// log for error reporting. The engine starts stopped; call Start to
// begin tracing (spec.md §4.1 "Start").
func New(backend symbol.Backend, log culog.Logger) *Engine {
	if log == nil {
		log = culog.Null()
	}
	return &Engine{backend: backend, log: log}
}

// Start is idempotent (spec.md §4.1). It re-reads configuration from
// the environment every call; if the engine was already running, the
// existing buffer and symbol cache are kept rather than reset.
func (e *Engine) Start() {
	e.cfg = config.LoadFTE()

	if e.buf == nil {
		capacity := int(e.cfg.MaxSamples)
		if capacity < 0 {
			capacity = 0
		}
		e.buf = buffer.New(capacity)
	}
	if e.sym == nil {
		e.sym = symbol.New(e.backend)
	}

	e.enabled.Store(true)
}

// Running reports whether tracing is currently enabled.
func (e *Engine) Running() bool { return e.enabled.Load() }

// LogEvent is the hot path (spec.md §4.2): called once per instrumented
// function entry/exit and once per explicit scope begin/end. It must
// never allocate, never block on a kernel primitive in the uncontended
// case, and must return immediately whenever tracing is disabled.
func (e *Engine) LogEvent(addr uintptr, kind buffer.Kind, thread clock.ThreadID) {
	e.inflight.Add(1)
	defer e.inflight.Add(-1)

	if !e.enabled.Load() {
		return
	}
	if e.cfg.MainThreadOnly && !clock.IsMainThread(thread) {
		return
	}

	ev := buffer.Event{Kind: kind, Address: addr, Thread: thread, Timestamp: clock.NowMicro()}

	e.buf.Lock()
	e.appendLocked(ev)
	e.buf.Unlock()
}

// appendLocked applies the min-time coalescing rule (spec.md §4.2 step
// 5) and then appends, disabling tracing once max_samples is reached.
// An event that arrives when the buffer is already full is dropped.
// Caller must hold e.buf's guard.
func (e *Engine) appendLocked(ev buffer.Event) {
	if e.cfg.MainThreadOnly && e.cfg.MinTimeUs > 0 && ev.Kind == buffer.Exit {
		if last, ok := e.buf.Last(); ok && last.Kind == buffer.Enter && last.Address == ev.Address {
			if ev.Timestamp-last.Timestamp < e.cfg.MinTimeUs {
				e.buf.PopLast()
				return
			}
		}
	}

	if e.buf.Full() {
		e.enabled.Store(false)
		return
	}
	e.buf.Append(ev)
	if e.buf.Full() {
		e.enabled.Store(false)
	}
}

// Stop is idempotent (spec.md §4.1 "Stop"). It clears tracing-enabled,
// waits for any in-flight LogEvent to observe the flag and return
// (spec.md §9 Design Notes), emits the report, and frees the buffer
// and symbol cache. The report is also emitted when tracing has
// already disabled itself at max_samples; once the buffer has been
// freed, further calls do nothing.
func (e *Engine) Stop(now time.Time) {
	e.enabled.Store(false)

	for e.inflight.Load() > 0 {
		// Busy-wait for writers already past the enabled check to
		// finish appending; none can start after the Store above.
	}

	if e.buf != nil && e.sym != nil {
		e.emitReport(now)
		e.buf = nil
		e.sym = nil
	}
}

func (e *Engine) emitReport(now time.Time) {
	path := e.cfg.ReportPath
	if path == "" {
		path = config.DefaultReportPath(pid())
	}

	f, err := createFile(path)
	if err != nil {
		e.log.Errorf("cpuusage: unable to write to output path %q: %v", path, err)
		return
	}
	defer f.Close()

	e.buf.Lock()
	raw := e.buf.Snapshot()
	e.buf.Unlock()

	resolve := e.sym.Resolve
	pidVal := pid()
	events := make([]report.FunctionEvent, len(raw))
	for i, ev := range raw {
		events[i] = report.ToFunctionEvent(ev, pidVal, resolve)
	}

	if err := report.WriteFunctionTrace(f, events, now); err != nil {
		e.log.Errorf("cpuusage: failed writing trace report: %v", err)
	}
}
