// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"time"
)

// ProcessEvent is the single complete ("X") event each participating
// process appends to the shared trace file (spec.md §3 "Process-trace
// record", §4.5 step 4).
type ProcessEvent struct {
	PID   int // always 0 on the wire, spec.md §4.5 step 4
	TID   int // 0 collapsed, or the process id when CU_EXPAND_PROCESSES=1
	TS    int64
	Dur   int64
	Name  string // already JSON-escaped command line, or "[<pid>]"
}

// WriteProcessHeader writes the shared trace file's header and the
// opening "traceEvents" array, up to and including its leading
// indentation — the root process calls this exactly once, while
// holding the file lock, before any event is appended (spec.md §4.5
// step 2).
func WriteProcessHeader(w io.Writer, now time.Time) error {
	if err := writeHeader(w, NewHeader(now)); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "  ")
	return err
}

// WriteProcessEvent appends e's bare JSON object with no leading
// separator of its own: the header already leaves the array positioned
// for the first object (WriteProcessHeader's trailing "  "), and every
// event before this one has already written its own trailing separator
// to make room for it (WriteProcessSeparator). This ports the original
// cup_writeevent's scheme of a separator trailing each write rather
// than one keyed on the writer's own root/non-root identity: whichever
// process's Stop() happens to run first needs no special-casing, since
// correctness only depends on what was written immediately before it,
// never on which process is doing the writing.
func WriteProcessEvent(w io.Writer, e ProcessEvent) error {
	_, err := fmt.Fprintf(w, "{ \"ph\":\"X\", \"cat\":\"perf\", \"pid\":%d, \"tid\":%d, \"ts\":%d, \"dur\":%d, \"name\":\"%s\" }",
		e.PID, e.TID, e.TS, e.Dur, e.Name)
	return err
}

// WriteProcessSeparator writes the trailing delimiter a non-root
// process leaves immediately after its own event, reserving the next
// array slot for whichever process appends next (spec.md §4.5 step 4).
func WriteProcessSeparator(w io.Writer) error {
	_, err := fmt.Fprint(w, ",\n  ")
	return err
}

// WriteProcessFooter closes the traceEvents array and the outer object.
// Only the root process calls this, immediately after writing its own
// event, terminating the document whether or not every sibling has
// appended by then — the resulting race, if the root's Stop() happens
// to run before a sibling's, is accepted rather than fixed (spec.md
// §4.5 step 5; see DESIGN.md).
func WriteProcessFooter(w io.Writer) error {
	_, err := fmt.Fprint(w, "  \n]\n}\n")
	return err
}
