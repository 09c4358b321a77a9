// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The stop-the-world tracer: pointer-reversal (Deutsch-Schorr-Waite) mark,
// linear sweep, and optional coalescing merge. Grounded structurally on
// lldb.Allocator.Verify's linear block walk (falloc.go) for the sweep and
// merge scans, and on the pack's annotated copies of the real Go runtime's
// collector (other_examples/*mgcmark*, *mbarrier*) for the mark phase's
// shape — reduced throughout to this package's single-threaded, no-barrier
// stop-the-world model.

package gc

// isLiveCandidate reports whether addr is a structurally plausible live
// object reference: in-arena and word-aligned. Any aligned in-arena word is
// treated as a candidate pointer (the specification's "structural pointer
// detection" design note); values that happen to look like addresses but
// are not objects cause only conservative over-retention, which is safe.
func (c *Collector) isLiveCandidate(addr Address) bool {
	return c.arena.contains(addr) && c.arena.aligned(addr)
}

// dfsMark runs Deutsch-Schorr-Waite pointer-reversal marking starting at
// start, which the caller guarantees is a live, currently NOT_MARKED,
// in-arena object. It uses O(1) auxiliary memory (the single `tmp`
// variable) regardless of the object graph's depth, exactly per the
// specification's §4.4.
func (c *Collector) dfsMark(start Address) {
	x := start
	tmp := null

	h := c.arena.getHeader(x)
	h.mark = marked
	h.done = 0
	c.arena.setHeader(x, h)

	for {
		h = c.arena.getHeader(x)
		fields := fieldCount(h)

		if h.done < fields {
			idx := h.done

			if c.cfg.SkipFirstField && idx == 0 {
				h.done++
				c.arena.setHeader(x, h)
				continue
			}

			fAddr := fieldAddr(x, idx)
			y := Address(c.arena.readWord(fAddr))

			if c.isLiveCandidate(y) {
				hy := c.arena.getHeader(y)
				if hy.mark == notMarked {
					// Descend: reverse the pointer, carrying the current
					// tmp down the reversed chain.
					c.arena.writeWord(fAddr, uintptr(tmp))
					tmp = x
					x = y
					hy.mark = marked
					hy.done = 0
					c.arena.setHeader(x, hy)
					continue
				}
			}

			// Not a descend target: try the next field of x.
			h.done++
			c.arena.setHeader(x, h)
			continue
		}

		// Ascend: x is fully scanned.
		y := x
		x = tmp
		if x == null {
			return
		}

		parent := c.arena.getHeader(x)
		fAddr := fieldAddr(x, parent.done)
		saved := Address(c.arena.readWord(fAddr))
		c.arena.writeWord(fAddr, uintptr(y))
		parent.done++
		c.arena.setHeader(x, parent)
		tmp = saved
	}
}

// mark seeds a DFS from every root whose current value is a live,
// unmarked, in-arena object.
func (c *Collector) mark() {
	n := c.roots.len()
	for i := 0; i < n; i++ {
		h := c.roots.at(i)
		x := *h
		if !c.isLiveCandidate(x) {
			continue
		}
		if c.arena.getHeader(x).mark == notMarked {
			c.dfsMark(x)
		}
	}
}

// firstPayload returns the payload address of the first block in the
// arena, the starting point for every linear block walk.
func (a *Arena) firstPayload() Address {
	return a.Start() + Address(wordSize)
}

// nextPayload returns the payload address of the block immediately
// following the block whose header describes h and whose payload is at
// payload.
func nextPayload(payload Address, h header) Address {
	return payload + Address(h.blockSize)
}

// sweep walks every block from the first to the end of the arena. MARKED
// blocks are live and are cleared back to NOT_MARKED; NOT_MARKED blocks are
// garbage and are reclaimed onto the free-list; FREE blocks are left
// untouched. It returns the payload addresses reclaimed, in scan order,
// which becomes Stats.LastSweepFreed.
func (c *Collector) sweep() []Address {
	var freed []Address

	payload := c.arena.firstPayload()
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		next := nextPayload(payload, h)

		switch h.mark {
		case marked:
			h.mark = notMarked
			c.arena.setHeader(payload, h)
		case notMarked:
			blockSize := h.blockSize
			h.mark = free
			c.arena.setHeader(payload, h)
			c.free.pushFront(c.arena, payload)
			c.stats.freeUsed(blockSize)
			freed = append(freed, payload)
		case free:
			// Already free; nothing to do.
		}

		payload = next
	}

	c.stats.setLastSweepFreed(freed)
	return freed
}

// merge rebuilds the free-list from scratch, coalescing every run of
// consecutive FREE blocks into the first block of the run. The resulting
// list is in descending-address order, which the specification notes is
// acceptable since free-list order is not contractual.
func (c *Collector) merge() {
	c.free.reset()

	var absorbed int64
	var runStart Address = null
	var runSize int64

	payload := c.arena.firstPayload()
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		next := nextPayload(payload, h)

		if h.mark == free {
			if runStart == null {
				runStart, runSize = payload, h.blockSize
			} else {
				runSize += h.blockSize
				absorbed++
			}
		} else if runStart != null {
			c.arena.setHeader(runStart, header{blockSize: runSize, done: 0, mark: free})
			c.free.pushFront(c.arena, runStart)
			runStart = null
		}

		payload = next
	}
	if runStart != null {
		c.arena.setHeader(runStart, header{blockSize: runSize, done: 0, mark: free})
		c.free.pushFront(c.arena, runStart)
	}

	c.stats.absorb(absorbed)
}

// collectStopTheWorld runs mark, then sweep, then (if configured) merge,
// to completion, and increments the full-collection counter. This is the
// entire stop-the-world Collect() behaviour (specification §4.4); the
// incremental engine's synchronous Collect (§4.6) calls the same three
// steps after resetting incremental state.
func (c *Collector) collectStopTheWorld() {
	c.mark()
	c.sweep()
	if c.cfg.MergeBlocks {
		c.merge()
	}
	c.stats.fullCollection()
}
