// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config reads the CU_* environment variables documented in
// spec.md §6 into the engine configuration record of spec.md §3. A
// malformed integer is a Configuration fault (spec.md §7): it falls
// back to the default silently, it never aborts the host process.
package config

import (
	"os"
	"strconv"
)

const (
	envMaxSamples      = "CU_MAX_SAMPLES"
	envMinTime         = "CU_MIN_TIME"
	envMainThreadOnly  = "CU_MAIN_THREAD_ONLY"
	envManual          = "CU_MANUAL"
	envFile            = "CU_FILE"
	envExpandProcesses = "CU_EXPAND_PROCESSES"

	// DefaultMaxSamples is the buffer capacity used when CU_MAX_SAMPLES
	// is unset or unparsable.
	DefaultMaxSamples = 1000000
)

// FTE is the function-trace engine's configuration record
// (spec.md §3 "Engine configuration").
type FTE struct {
	MaxSamples    int64
	MinTimeUs     int64
	MainThreadOnly bool
	Manual        bool
	ReportPath    string
}

// LoadFTE reads the function-trace engine configuration from the
// process environment, applying the defaults from spec.md §6 for any
// variable that is unset or fails to parse.
func LoadFTE() FTE {
	return FTE{
		MaxSamples:     parseInt64(os.Getenv(envMaxSamples), DefaultMaxSamples),
		MinTimeUs:      parseInt64(os.Getenv(envMinTime), 0),
		MainThreadOnly: parseBool(os.Getenv(envMainThreadOnly)),
		Manual:         parseBool(os.Getenv(envManual)),
		ReportPath:     os.Getenv(envFile),
	}
}

// PTE is the process-trace engine's configuration.
type PTE struct {
	ReportPath      string
	ExpandProcesses bool
}

// LoadPTE reads the process-trace engine configuration from the
// process environment.
func LoadPTE() PTE {
	return PTE{
		ReportPath:      os.Getenv(envFile),
		ExpandProcesses: parseBool(os.Getenv(envExpandProcesses)),
	}
}

// DefaultReportPath returns "./culog-<pid>.json", the fallback output
// path used by both engines when CU_FILE is unset (spec.md §4.4, §4.5).
func DefaultReportPath(pid int) string {
	return "./culog-" + strconv.Itoa(pid) + ".json"
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func parseBool(s string) bool {
	return s == "1"
}

const loaderInjectionMarker = "LD_PRELOAD"

// InjectedByLoader reports whether the shared library was brought in
// by the dynamic linker's preload mechanism (spec.md §4.1 step 1). When
// false the library is linked statically into a unit test binary or
// loaded some other way, and automatic activation must be skipped.
func InjectedByLoader() bool {
	return os.Getenv(loaderInjectionMarker) != ""
}
