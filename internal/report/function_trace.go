// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/d99kris/cpuusage/internal/buffer"
)

// FunctionEvent is one B/E row of the function-trace report. Resolved
// names are supplied by the caller (internal/engine, via
// internal/symbol) rather than looked up here, keeping this package
// free of the cgo symbol backend so it stays trivially unit-testable.
type FunctionEvent struct {
	Phase string // "B" or "E"
	PID   int
	TID   uintptr
	Name  string
	TS    int64
}

// ToFunctionEvent converts a buffered Event into the report row, given
// the process id and a resolver for the event's address.
func ToFunctionEvent(e buffer.Event, pid int, resolve func(uintptr) string) FunctionEvent {
	phase := "B"
	if e.Kind == buffer.Exit {
		phase = "E"
	}
	return FunctionEvent{
		Phase: phase,
		PID:   pid,
		TID:   uintptr(e.Thread),
		Name:  resolve(e.Address),
		TS:    e.Timestamp,
	}
}

// WriteFunctionTrace emits the function-trace engine's Chrome Trace
// Format document (spec.md §4.4): pid and tid are strings in this
// variant (an intentional divergence from strict Chrome Trace Format,
// preserved for compatibility per spec.md §9 Open Questions); ts is a
// bare integer. Events are written in the order given, uncompressed
// and unsorted.
func WriteFunctionTrace(w io.Writer, events []FunctionEvent, now time.Time) error {
	if err := writeHeader(w, NewHeader(now)); err != nil {
		return err
	}

	for i, e := range events {
		sep := ",\n  "
		if i == 0 {
			sep = "  "
		}
		if _, err := fmt.Fprintf(w, "%s{ \"ph\":\"%s\", \"cat\":\"perf\", \"pid\":\"%d\", \"tid\":\"%d\", \"name\":\"%s\", \"ts\":%d }",
			sep, e.Phase, e.PID, e.TID, jsonEscape(e.Name), e.TS); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "\n]\n}\n")
	return err
}
