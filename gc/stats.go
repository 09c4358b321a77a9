// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Diagnostics: the running counters the specification requires and the
// human-readable dump built on top of them (dump.go). Grounded on
// lldb.AllocStats, which plays the analogous role for the teacher's
// allocator ("records statistics about a Filer... optionally filled by
// Allocator.Verify").

package gc

import "github.com/cznic/mathutil"

// Stats is a snapshot of the running counters the specification's data
// model calls for. GetStats returns a copy; the live counters are held on
// Collector and mutated in place as blocks move between used and free.
type Stats struct {
	UsedBlocks  int64
	FreeBlocks  int64
	TotalBlocks int64

	PeakUsedBlocks int64

	UsedBytes int64
	FreeBytes int64

	PeakUsedBytes int64

	Reads  int64
	Writes int64

	FullCollections    int64
	IncrementalCycles  int64

	// LastSweepFreed holds the payload addresses the most recent full
	// collection's sweep reclaimed, in the order the linear scan visited
	// them. Blocks reclaimed by incremental work slices are not recorded.
	LastSweepFreed []Address
}

// liveStats is the mutable counter set embedded in Collector. Its methods
// are the only place counters are touched, so every invariant in the
// specification's §3 is enforced in one spot.
type liveStats struct {
	s Stats
}

func newLiveStats(capacity int64) *liveStats {
	return &liveStats{s: Stats{
		FreeBlocks:  1,
		TotalBlocks: 1,
		FreeBytes:   capacity,
	}}
}

// snapshot returns a copy safe for the caller to retain.
func (ls *liveStats) snapshot() Stats {
	out := ls.s
	out.LastSweepFreed = append([]Address(nil), ls.s.LastSweepFreed...)
	return out
}

// takeUsed moves blockSize bytes (header + payload, the full block) from
// free to used, for a block that was just carved out of the free-list by
// the allocator, and bumps the peak counters.
func (ls *liveStats) takeUsed(blockSize int64) {
	ls.s.UsedBlocks++
	ls.s.FreeBlocks--
	ls.s.UsedBytes += blockSize
	ls.s.FreeBytes -= blockSize
	ls.s.PeakUsedBlocks = mathutil.MaxInt64(ls.s.PeakUsedBlocks, ls.s.UsedBlocks)
	ls.s.PeakUsedBytes = mathutil.MaxInt64(ls.s.PeakUsedBytes, ls.s.UsedBytes)
}

// growBlocks records that a split carved a brand new free block out of an
// existing one, increasing total_blocks and free_blocks by one.
func (ls *liveStats) growBlocks() {
	ls.s.TotalBlocks++
	ls.s.FreeBlocks++
}

// freeUsed moves blockSize bytes from used to free, for a block the
// sweeper just reclaimed.
func (ls *liveStats) freeUsed(blockSize int64) {
	ls.s.UsedBlocks--
	ls.s.FreeBlocks++
	ls.s.UsedBytes -= blockSize
	ls.s.FreeBytes += blockSize
}

// absorb records that `n` free blocks vanished into their left neighbour
// during merge: total_blocks and free_blocks both drop by n, free bytes
// are unchanged (the bytes survive in the surviving block).
func (ls *liveStats) absorb(n int64) {
	ls.s.TotalBlocks -= n
	ls.s.FreeBlocks -= n
}

func (ls *liveStats) read()  { ls.s.Reads++ }
func (ls *liveStats) write() { ls.s.Writes++ }

func (ls *liveStats) fullCollection() { ls.s.FullCollections++ }
func (ls *liveStats) incrementalCycle() { ls.s.IncrementalCycles++ }

func (ls *liveStats) setLastSweepFreed(freed []Address) {
	ls.s.LastSweepFreed = freed
}
