// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Collector is the package's public handle: one arena, one free-list, one
// root stack, one set of counters, and (when configured) one incremental
// engine, wired together the way dbm.DB wires an Options, a Filer and a
// codec into a single exported handle.

package gc

// Collector is the exported entry point. Every exported method takes and
// returns plain values (Address, bool, error, Stats) so callers never see
// the unexported arena/header/free-list machinery directly.
type Collector struct {
	arena *Arena
	free  freeList
	stats *liveStats
	cfg   Config
	roots rootStack
	incr  incrementalState
}

// NewCollector validates cfg, allocates the arena and, if cfg.Incremental
// is set, puts the incremental engine in its first MARK phase with an
// empty gray queue (there is nothing to seed yet, since no roots are
// registered). phaseMark is also the zero value of the phase field; the
// phase is set explicitly so the starting state does not depend on that.
// The sweep cursor stays unset until the first MARK phase completes.
func NewCollector(cfg Config) (*Collector, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}

	arena, err := NewArena(cfg.MaxMemory)
	if err != nil {
		return nil, err
	}

	c := &Collector{
		arena: arena,
		cfg:   cfg,
		stats: newLiveStats(cfg.MaxMemory),
	}

	firstPayload := arena.firstPayload()
	arena.setHeader(firstPayload, header{blockSize: cfg.MaxMemory, done: 0, mark: free})
	c.free.pushFront(arena, firstPayload)

	if cfg.Incremental {
		c.incr.phase = phaseMark
	}

	return c, nil
}

// Allocate implements specification §4.2's public surface. In incremental
// mode it first performs a work slice of k*need bytes (computed against
// the same word-aligned need the allocator itself will carve), then
// attempts the allocation. It returns (null, false) if no block large
// enough for bytes exists, matching allocate's own contract; callers
// wanting an allocation to trigger an immediate full collection must call
// Collect and retry themselves (the specification leaves
// allocation-failure recovery to the caller).
func (c *Collector) Allocate(bytes int64) (Address, bool) {
	if c.cfg.Incremental {
		need := alignUp(int64(wordSize)+bytes, int64(wordSize))
		c.incrementalWork(c.cfg.IncrementalRate * need)
	}
	addr, ok := c.allocate(bytes)
	c.assertArenaConsistent("Collector.Allocate")
	return addr, ok
}

// Collect runs a full collection to completion. In stop-the-world mode
// (the default) this is simply mark/sweep/merge. In incremental mode,
// Collect first resets the current cycle (clearing live marks and
// reseeding the gray queue from the present root set, specification
// §4.6) and then runs the very same stop-the-world mark/sweep/merge,
// leaving the incremental engine positioned at the start of a fresh MARK
// phase when it returns.
func (c *Collector) Collect() {
	if c.cfg.Incremental {
		c.resetIncrementalCycle()
	}
	c.collectStopTheWorld()
	c.assertArenaConsistent("Collector.Collect")
}

// PushRoot registers h as a new root, on top of the root stack. If the
// incremental engine is running, the object h currently points at (if
// any) is protected against being reclaimed in the cycle under way: during
// MARK it is enqueued for scanning; during SWEEP, if the sweep cursor has
// not yet passed it, it is force-marked so the sweeper preserves it when
// it gets there (specification §4.3, §4.6). A block the cursor has already
// passed is left as it is: if it was still live the sweeper has already
// reset it to NOT_MARKED and does not revisit it in this cycle, and the
// root is seeded into the next MARK phase.
func (c *Collector) PushRoot(h RootHandle) {
	c.roots.push(h)

	if !c.cfg.Incremental {
		return
	}
	x := *h
	if !c.isLiveCandidate(x) {
		return
	}
	switch c.incr.phase {
	case phaseMark:
		c.enqueueGray(x)
	case phaseSweep:
		if x >= c.incr.resumeFrom {
			hdr := c.arena.getHeader(x)
			if hdr.mark != free {
				hdr.mark = marked
				c.arena.setHeader(x, hdr)
			}
		}
	}
}

// PopRoot unregisters h, which must be the current top of the root stack.
func (c *Collector) PopRoot(h RootHandle) error {
	return c.roots.pop(h)
}

// ReadBarrier records a read of obj. If obj is in-arena it asserts the
// target is not FREE, the specification's use-after-free detector
// (§4.5). The incremental engine needs no further action on a read —
// only writes can hide a white object from an already-black scanner.
func (c *Collector) ReadBarrier(obj Address) {
	c.stats.read()
	if c.isLiveCandidate(obj) {
		assert(c.arena.getHeader(obj).mark != free, "Collector.ReadBarrier: obj", obj, c.arena.getHeader(obj).mark, "not FREE")
	}
}

// WriteBarrier records a write of contents into a field of obj. If obj is
// in-arena it asserts the target is not FREE. When both obj and contents
// are in-arena, the collector is in incremental MARK phase, obj is
// MARKED and contents is NOT_MARKED, contents is enqueued onto the gray
// queue: the Dijkstra incremental-update barrier that prevents the
// mutator from hiding a white object behind an already-scanned (black)
// one (specification §4.5).
func (c *Collector) WriteBarrier(obj, contents Address) {
	c.stats.write()

	objLive := c.isLiveCandidate(obj)
	if objLive {
		assert(c.arena.getHeader(obj).mark != free, "Collector.WriteBarrier: obj", obj, c.arena.getHeader(obj).mark, "not FREE")
	}

	if !c.cfg.Incremental || c.incr.phase != phaseMark {
		return
	}
	if !objLive || !c.isLiveCandidate(contents) {
		return
	}
	if c.arena.getHeader(obj).mark == marked && c.arena.getHeader(contents).mark == notMarked {
		c.enqueueGray(contents)
	}
}

// GetStats returns a snapshot of the running counters.
func (c *Collector) GetStats() Stats {
	return c.stats.snapshot()
}
