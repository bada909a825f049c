// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package engine

import "os"

func pid() int { return os.Getpid() }

// createFile opens path for writing, truncating any existing content
// (spec.md §4.4: "If the output path cannot be opened, emit a one-line
// diagnostic ... and skip emission without crashing" — the Output-path
// fault case from spec.md §7).
func createFile(path string) (*os.File, error) {
	return os.Create(path)
}
