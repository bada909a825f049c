// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !linux

package report

import "runtime"

// osString falls back to runtime.GOOS on platforms where this module
// does not wire up a native uname(2) lookup (spec.md §4.4 header "os"
// field is best-effort; the profiler's own operation never depends on
// its exact contents).
func osString() string {
	return runtime.GOOS
}
