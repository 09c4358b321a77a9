// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import "testing"

// TestFreshState is the specification's seed scenario 1.
func TestFreshState(t *testing.T) {
	c := newTestCollector(t, Config{MaxMemory: 32})
	checkInvariants(t, c)

	s := c.GetStats()
	if got, want := s.UsedBlocks, int64(0); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.FreeBlocks, int64(1); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.UsedBytes, int64(0); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.FreeBytes, int64(32); got != want {
		t.Fatal(got, want)
	}
}

// TestExhaustion is the specification's seed scenario 2.
func TestExhaustion(t *testing.T) {
	c := newTestCollector(t, Config{MaxMemory: 48})

	if _, ok := c.Allocate(1); !ok {
		t.Fatal("allocate(1) should have succeeded")
	}
	checkInvariants(t, c)

	if _, ok := c.Allocate(8); !ok {
		t.Fatal("allocate(8) should have succeeded")
	}
	checkInvariants(t, c)

	if _, ok := c.Allocate(9); ok {
		t.Fatal("allocate(9) should have failed")
	}
	checkInvariants(t, c)

	s := c.GetStats()
	if got, want := s.UsedBlocks, int64(2); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.FreeBlocks, int64(1); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.UsedBytes, int64(32); got != want {
		t.Fatal(got, want)
	}
	if got, want := s.FreeBytes, int64(16); got != want {
		t.Fatal(got, want)
	}
}

// TestAllocateExactArenaMinusHeader is the specification's boundary
// behavior: requesting exactly max_memory-W succeeds.
func TestAllocateExactArenaMinusHeader(t *testing.T) {
	const mem = 64
	c := newTestCollector(t, Config{MaxMemory: mem})
	addr, ok := c.Allocate(mem - int64(wordSize))
	if !ok {
		t.Fatal("allocate(max_memory-W) should have succeeded")
	}
	if !c.arena.aligned(addr) || !c.arena.contains(addr) {
		t.Fatal("returned address not aligned/in-arena", addr)
	}
	checkInvariants(t, c)
}

// TestAllocateArenaMinusHeaderPlusOneFails is the companion boundary
// behavior: requesting one more byte fails with null.
func TestAllocateArenaMinusHeaderPlusOneFails(t *testing.T) {
	const mem = 64
	c := newTestCollector(t, Config{MaxMemory: mem})
	if _, ok := c.Allocate(mem - int64(wordSize) + 1); ok {
		t.Fatal("allocate(max_memory-W+1) should have failed")
	}
	checkInvariants(t, c)
}

// TestSplitNeverLeavesUndersizedTail exercises §4.2 clause 3: a split
// that would leave a tail smaller than 2W must not split, and must
// instead keep the whole oversize block.
func TestSplitNeverLeavesUndersizedTail(t *testing.T) {
	// 32 bytes total: one block of block_size 32. Requesting 1 byte
	// needs need=16; tail would be 32-16=16, exactly 2W, so this still
	// splits. Drop to a size where the tail would be sub-2W instead:
	// block_size 24, need 16, tail 8 (< 2W=16) must not split.
	c := newTestCollector(t, Config{MaxMemory: 24})
	addr, ok := c.Allocate(1) // need = 16, block_size = 24, tail = 8 < 16
	if !ok {
		t.Fatal("allocate(1) should have succeeded")
	}
	h := c.arena.getHeader(addr)
	if got, want := h.blockSize, int64(24); got != want {
		t.Fatal("expected whole oversize block kept, not split", got, want)
	}
	checkInvariants(t, c)
}

func TestAllocateZeroBytesIsContractViolation(t *testing.T) {
	c := newTestCollector(t, Config{MaxMemory: 32})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero-byte allocation request")
		}
	}()
	c.Allocate(0)
}
