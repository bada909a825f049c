// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ptrace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maruel/ut"

	"github.com/d99kris/cpuusage/internal/culog"
)

func setPTEEnv(t *testing.T, path string, expand bool) {
	t.Helper()
	for _, k := range []string{"CU_FILE", "CU_EXPAND_PROCESSES", rootEnvVar} {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
	os.Setenv("CU_FILE", path)
	if expand {
		os.Setenv("CU_EXPAND_PROCESSES", "1")
	}
}

// TestFirstProcessElectsRoot confirms the process that finds the output
// path missing becomes root and writes the header.
func TestFirstProcessElectsRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	setPTEEnv(t, path, false)

	e := Start(culog.Null(), time.Now())
	ut.AssertEqual(t, true, e.isRoot)
	ut.AssertEqual(t, "1", os.Getenv(rootEnvVar))

	raw, err := os.ReadFile(path)
	ut.AssertEqual(t, nil, err)
	ut.AssertEqual(t, true, len(raw) > 0)
}

// TestSecondProcessIsNotRoot confirms a process that finds the output
// path already present defers header/footer duties to the root.
func TestSecondProcessIsNotRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	setPTEEnv(t, path, false)

	root := Start(culog.Null(), time.Now())
	ut.AssertEqual(t, true, root.isRoot)

	child := Start(culog.Null(), time.Now())
	ut.AssertEqual(t, false, child.isRoot)
	ut.AssertEqual(t, "0", os.Getenv(rootEnvVar))
}

// TestTwoProcessTraceMerges simulates a root process and one child
// sharing a single trace file; after both Stop, the file must parse as
// JSON with exactly two events and a root-written trailer.
func TestTwoProcessTraceMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	setPTEEnv(t, path, false)

	begin := time.Unix(1000, 0)
	root := Start(culog.Null(), begin)
	os.Setenv(rootEnvVar, "1")

	child := Start(culog.Null(), begin.Add(time.Millisecond))
	os.Setenv(rootEnvVar, "0")
	child.Stop(begin.Add(2 * time.Millisecond))

	os.Setenv(rootEnvVar, "1")
	root.Stop(begin.Add(3 * time.Millisecond))

	raw, err := os.ReadFile(path)
	ut.AssertEqual(t, nil, err)

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(raw, &doc))
	events := doc["traceEvents"].([]interface{})
	ut.AssertEqual(t, 2, len(events))
}

// TestExpandProcessesSetsDistinctTID confirms the tid field is the
// process's own pid when expand_processes is set, and zero otherwise.
func TestExpandProcessesSetsDistinctTID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	setPTEEnv(t, path, true)

	begin := time.Unix(1000, 0)
	e := Start(culog.Null(), begin)
	os.Setenv(rootEnvVar, "1")
	e.Stop(begin.Add(time.Millisecond))

	raw, err := os.ReadFile(path)
	ut.AssertEqual(t, nil, err)

	var doc map[string]interface{}
	ut.AssertEqual(t, nil, json.Unmarshal(raw, &doc))
	events := doc["traceEvents"].([]interface{})
	ev := events[0].(map[string]interface{})
	ut.AssertEqual(t, float64(os.Getpid()), ev["tid"])
}
