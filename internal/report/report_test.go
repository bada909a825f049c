// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/maruel/ut"
)

func TestWriteFunctionTraceParsesAsJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	events := []FunctionEvent{
		{Phase: "B", PID: 1, TID: 2, Name: "A", TS: 100},
		{Phase: "E", PID: 1, TID: 2, Name: "A", TS: 200},
	}
	err := WriteFunctionTrace(&buf, events, time.Unix(0, 0))
	ut.AssertEqual(t, nil, err)

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(buf.Bytes(), &doc))

	trace, ok := doc["traceEvents"].([]interface{})
	ut.AssertEqual(t, true, ok)
	ut.AssertEqual(t, 2, len(trace))

	first := trace[0].(map[string]interface{})
	ut.AssertEqual(t, "B", first["ph"])
	ut.AssertEqual(t, "1", first["pid"])
	ut.AssertEqual(t, "2", first["tid"])
}

func TestWriteFunctionTraceEmptyStillParses(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ut.AssertEqual(t, nil, WriteFunctionTrace(&buf, nil, time.Unix(0, 0)))

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(buf.Bytes(), &doc))
	trace := doc["traceEvents"].([]interface{})
	ut.AssertEqual(t, 0, len(trace))
}

func TestWriteFunctionTraceEndsWithClosingBrackets(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ut.AssertEqual(t, nil, WriteFunctionTrace(&buf, nil, time.Unix(0, 0)))
	s := buf.String()
	ut.AssertEqual(t, "]\n}\n", s[len(s)-4:])
}

func TestProcessTraceRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ut.AssertEqual(t, nil, WriteProcessHeader(&buf, time.Unix(0, 0)))
	ut.AssertEqual(t, nil, WriteProcessEvent(&buf, ProcessEvent{TS: 10, Dur: 5, Name: "p1"}))
	ut.AssertEqual(t, nil, WriteProcessSeparator(&buf))
	ut.AssertEqual(t, nil, WriteProcessEvent(&buf, ProcessEvent{TID: 99, TS: 20, Dur: 7, Name: "p2"}))
	ut.AssertEqual(t, nil, WriteProcessFooter(&buf))

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(buf.Bytes(), &doc))
	trace := doc["traceEvents"].([]interface{})
	ut.AssertEqual(t, 2, len(trace))

	second := trace[1].(map[string]interface{})
	ut.AssertEqual(t, "X", second["ph"])
	ut.AssertEqual(t, float64(99), second["tid"])
	ut.AssertEqual(t, float64(7), second["dur"])
}

// TestProcessTraceOrderIndependence confirms the document parses
// whichever of two writers happens to append first, matching the
// trailing-separator scheme WriteProcessEvent relies on: the non-root
// writer always leaves a separator behind for whoever writes next,
// rather than the next writer deciding a leading one from its own
// identity.
func TestProcessTraceOrderIndependence(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ut.AssertEqual(t, nil, WriteProcessHeader(&buf, time.Unix(0, 0)))
	// Non-root writes first, as happens when a short-lived child process
	// exits before its long-lived parent (the root).
	ut.AssertEqual(t, nil, WriteProcessEvent(&buf, ProcessEvent{TS: 10, Dur: 5, Name: "child"}))
	ut.AssertEqual(t, nil, WriteProcessSeparator(&buf))
	ut.AssertEqual(t, nil, WriteProcessEvent(&buf, ProcessEvent{TS: 20, Dur: 7, Name: "root"}))
	ut.AssertEqual(t, nil, WriteProcessFooter(&buf))

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(buf.Bytes(), &doc))
	trace := doc["traceEvents"].([]interface{})
	ut.AssertEqual(t, 2, len(trace))
	ut.AssertEqual(t, "child", trace[0].(map[string]interface{})["name"])
	ut.AssertEqual(t, "root", trace[1].(map[string]interface{})["name"])
}

func TestJSONEscapeControlCharsAndQuotes(t *testing.T) {
	t.Parallel()
	got := jsonEscape("a\"b\\c\x01")
	want := "a\\u0022b\\u005cc\\u0001"
	ut.AssertEqual(t, want, got)
}
