// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "fmt"

// ErrINVAL reports an invalid argument supplied by the caller: a zero byte
// allocation request, a root handle that does not match the top of the root
// stack, a malformed Config, etc. These are the caller's contract
// violations, not collector state corruption.
type ErrINVAL struct {
	Src string
	Arg interface{}
}

func (e *ErrINVAL) Error() string {
	return fmt.Sprintf("%s: invalid argument %v", e.Src, e.Arg)
}

// ErrCorrupt reports that a debug-time consistency check found the arena,
// a block header or the free-list in a state the collector's invariants
// disallow. It is the collector's analogue of lldb's ErrILSEQ (illegal
// sequence) and backs the "corruption" cases of the specification's
// failure semantics; invalid caller arguments are reported as ErrINVAL.
type ErrCorrupt struct {
	Src      string
	Off      Address
	Got, Want interface{}
}

func (e *ErrCorrupt) Error() string {
	if e.Got == nil && e.Want == nil {
		return fmt.Sprintf("%s: corrupted state at %#x", e.Src, uintptr(e.Off))
	}
	return fmt.Sprintf("%s: corrupted state at %#x: got %v, want %v", e.Src, uintptr(e.Off), e.Got, e.Want)
}

// debug toggles the expensive, O(n) consistency assertions (arena tiling
// walk, free-list membership scan, see consistency.go) and is defined by
// build tag in debug_on.go/debug_off.go: the default build keeps it true,
// matching the teacher's debugMalloc style const flags, while building
// with "-tags release" flips it to false, eliding the panics mandated by
// the specification's failure semantics for "release builds may elide
// the assertions".

// assert panics with ErrCorrupt if cond is false and debug assertions are
// enabled. src identifies the caller for the resulting message.
func assert(cond bool, src string, off Address, got, want interface{}) {
	if !debug {
		return
	}
	if !cond {
		panic(&ErrCorrupt{Src: src, Off: off, Got: got, Want: want})
	}
}

// invariant is like assert but always runs: it backs O(1) corruption
// checks that must hold even in a release build (e.g. get_header's cheap
// corruption detector from the specification's §4.1).
func invariant(cond bool, src string, off Address, got, want interface{}) {
	if !cond {
		panic(&ErrCorrupt{Src: src, Off: off, Got: got, Want: want})
	}
}
