// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build linux

package report

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// osString returns "<sysname> <release>", matching the original's
// `uname(&uts); sysname + " " + release` (spec.md §4.4 header "os"
// field), via golang.org/x/sys/unix instead of a cgo uname(2) call.
func osString() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return cstr(uts.Sysname[:]) + " " + cstr(uts.Release[:])
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
