// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The collector's own O(n) corruption detector: a full arena-tiling walk
// cross-checked against free-list membership, run at the end of every
// public operation that can move blocks between used and free. This is
// the production analogue of the test suite's checkInvariants helper
// (gc/helpers_test.go), gated behind the debug const (debug_on.go /
// debug_off.go) exactly like the package's other assert-only checks,
// since walking every block is too expensive to pay unconditionally in a
// release build.

package gc

// assertArenaConsistent walks [arena_start, arena_end) once, verifying
// that the walk tiles the arena exactly and that the free-list enumerates
// precisely the blocks marked FREE, no more, no less — the specification's
// §3 "must hold between public operations" invariants for the free-list
// and the arena tiling. src identifies the calling operation for the
// resulting ErrCorrupt. A no-op when debug assertions are disabled.
func (c *Collector) assertArenaConsistent(src string) {
	if !debug {
		return
	}

	onFreeList := make(map[Address]bool)
	for _, addr := range c.free.walk(c.arena) {
		if onFreeList[addr] {
			panic(&ErrCorrupt{Src: src, Off: addr, Got: "duplicate free-list entry", Want: "at most one"})
		}
		onFreeList[addr] = true
	}

	payload := c.arena.firstPayload()
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		listed := onFreeList[payload]

		switch h.mark {
		case free:
			if !listed {
				panic(&ErrCorrupt{Src: src, Off: payload, Got: "FREE block missing from free-list", Want: "present"})
			}
			delete(onFreeList, payload)
		case notMarked, marked:
			if listed {
				panic(&ErrCorrupt{Src: src, Off: payload, Got: "non-FREE block present on free-list", Want: "absent"})
			}
		}

		payload = nextPayload(payload, h)
	}

	if headerAddr(payload) != c.arena.End() {
		panic(&ErrCorrupt{Src: src, Off: payload, Got: payload, Want: c.arena.End()})
	}
	if len(onFreeList) != 0 {
		panic(&ErrCorrupt{Src: src, Off: null, Got: "free-list entries absent from arena walk", Want: 0})
	}
}
