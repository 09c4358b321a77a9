// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "testing"

// checkInvariants walks the live collector state and verifies every
// universal invariant from the specification's testable-properties
// section: byte/block accounting, arena tiling, free-list membership and
// address alignment.
func checkInvariants(t *testing.T, c *Collector) {
	t.Helper()

	s := c.stats.snapshot()
	if got, want := s.UsedBytes+s.FreeBytes, c.cfg.MaxMemory; got != want {
		t.Fatal(got, want)
	}
	if got, want := s.UsedBlocks+s.FreeBlocks, s.TotalBlocks; got != want {
		t.Fatal(got, want)
	}

	onFreeList := make(map[Address]bool)
	for _, addr := range c.free.walk(c.arena) {
		if onFreeList[addr] {
			t.Fatal("duplicate free-list entry", addr)
		}
		onFreeList[addr] = true
	}

	var blocks, usedBlocks, freeBlocks int64
	var usedBytes, freeBytes int64
	payload := c.arena.firstPayload()
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		if !c.arena.aligned(payload) {
			t.Fatal("misaligned payload", payload)
		}
		switch h.mark {
		case free:
			freeBlocks++
			freeBytes += h.blockSize
			if !onFreeList[payload] {
				t.Fatal("free block missing from free-list", payload)
			}
			delete(onFreeList, payload)
		case notMarked, marked:
			usedBlocks++
			usedBytes += h.blockSize
			if h.mark == marked {
				t.Fatal("live block unexpectedly MARKED outside mark/sweep", payload)
			}
		}
		blocks++
		payload = nextPayload(payload, h)
	}
	if headerAddr(payload) != c.arena.End() {
		t.Fatal("arena not exactly tiled, walk overshot end", payload, c.arena.End())
	}
	if len(onFreeList) != 0 {
		t.Fatal("free-list entries not present on arena walk", onFreeList)
	}

	if got, want := blocks, s.TotalBlocks; got != want {
		t.Fatal(got, want)
	}
	if got, want := usedBlocks, s.UsedBlocks; got != want {
		t.Fatal(got, want)
	}
	if got, want := freeBlocks, s.FreeBlocks; got != want {
		t.Fatal(got, want)
	}
	if got, want := usedBytes, s.UsedBytes; got != want {
		t.Fatal(got, want)
	}
	if got, want := freeBytes, s.FreeBytes; got != want {
		t.Fatal(got, want)
	}
	if s.PeakUsedBytes < s.UsedBytes {
		t.Fatal(s.PeakUsedBytes, s.UsedBytes)
	}
	if s.PeakUsedBlocks < s.UsedBlocks {
		t.Fatal(s.PeakUsedBlocks, s.UsedBlocks)
	}
}

func newTestCollector(t *testing.T, cfg Config) *Collector {
	t.Helper()
	c, err := NewCollector(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
