// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package procinfo

import (
	"os"
	"testing"

	"github.com/maruel/ut"
)

func TestCommandLineReadsOwnProcEntry(t *testing.T) {
	t.Parallel()
	got := CommandLine(os.Getpid())
	ut.AssertEqual(t, true, len(got) > 0)
}

func TestCommandLineUnknownPIDFallsBackToBracketForm(t *testing.T) {
	t.Parallel()
	// PID 1 is always "init"/"systemd" on a real system but an
	// unreachable PID number is guaranteed not to exist.
	const impossible = 1 << 30
	got := CommandLine(impossible)
	ut.AssertEqual(t, "[1073741824]", got)
}

func TestEscapeQuotesAndBackslashes(t *testing.T) {
	t.Parallel()
	got := escape("a\"b\\c")
	want := "a\\u0022b\\u005cc"
	ut.AssertEqual(t, want, got)
}

func TestEscapeControlChar(t *testing.T) {
	t.Parallel()
	got := escape("a\x01b")
	want := "a\\u0001b"
	ut.AssertEqual(t, want, got)
}

func TestEscapeLeavesOrdinaryTextUnchanged(t *testing.T) {
	t.Parallel()
	ut.AssertEqual(t, "/usr/bin/find . -name foo", escape("/usr/bin/find . -name foo"))
}
