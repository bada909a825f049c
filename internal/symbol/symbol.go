// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package symbol implements the lazy, memoizing address-to-name cache
// described in spec.md §3 "Symbol cache" and §4.3. It is only ever
// consulted at report-emission time (invariant 5): the hot path never
// imports this package.
package symbol

import (
	"fmt"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// Backend is the abstract symbol-resolution service spec.md §1 and §9
// name as an external collaborator: given an address, it returns the
// nearest exported symbol name and that symbol's base address. This
// models the dynamic linker lookup (e.g. dladdr(3)) the original C++
// implementation calls directly; this module assumes it is supplied by
// the host runtime (cgo, in the real cmd/libcuprof binary; a fake in
// tests).
type Backend interface {
	// Lookup returns the nearest symbol name and its base address for
	// addr. ok is false if the backend has no symbol covering addr.
	Lookup(addr uintptr) (name string, base uintptr, ok bool)
}

// Cache maps addresses to resolved, display-ready symbol strings.
// Entries are stable once inserted (spec.md §3 "Symbol cache").
// Per invariant 5 this type is used single-threaded at report time and
// does not guard its map with a lock.
type Cache struct {
	backend Backend
	entries map[uintptr]string
}

// New creates an empty Cache backed by backend.
func New(backend Backend) *Cache {
	return &Cache{backend: backend, entries: map[uintptr]string{}}
}

// Resolve returns the display name for addr, consulting backend and
// memoizing the result on first use (spec.md §4.3).
func (c *Cache) Resolve(addr uintptr) string {
	if name, ok := c.entries[addr]; ok {
		return name
	}

	name := c.resolveUncached(addr)
	c.entries[addr] = name
	return name
}

func (c *Cache) resolveUncached(addr uintptr) string {
	symName, base, ok := c.backend.Lookup(addr)
	if !ok || symName == "" {
		return fmt.Sprintf("0x%x", uint64(addr))
	}

	if looksMangled(symName) {
		if demangled := demangle.Filter(symName); demangled != symName && demangled != "" {
			symName = demangled
		}
	}

	offset := int64(addr) - int64(base)
	return fmt.Sprintf("%s + %d", symName, offset)
}

// looksMangled reports whether name follows a mangling convention this
// profiler knows how to demangle: the Itanium C++ ABI ("_Z...", which
// also covers Rust's legacy scheme) and Rust's v0 scheme ("_R..."),
// both of which begin with an
// underscore the way the original's `dlinfo.dli_sname[0] == '_'` check
// anticipated, narrowed here to avoid feeding ordinary C symbols (which
// also often start with '_') through the demangler on every resolve.
func looksMangled(name string) bool {
	return strings.HasPrefix(name, "_Z") || strings.HasPrefix(name, "_R")
}
