// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The incremental engine: a two-phase (MARK/SWEEP) state machine driven in
// small work quanta by each allocation, plus the Dijkstra-style
// incremental-update write barrier and the allocate-black rule that
// together keep it sound. Grounded, in shape rather than in code, on the
// pack's annotated copies of the real Go runtime collector
// (other_examples/*mgcwork* for the gray-queue producer/consumer framing,
// *mbarrier* for the write barrier), reduced to this package's
// single-threaded, synchronous model — no per-P buffers, no atomics.

package gc

// phase is the incremental engine's current half-cycle.
type phase int

const (
	phaseMark phase = iota
	phaseSweep
)

// incrementalState holds everything the incremental engine needs beyond
// what the stop-the-world tracer already provides: the gray queue (FIFO of
// objects known reachable but not yet scanned) and the sweep resume
// cursor.
type incrementalState struct {
	phase      phase
	gray       []Address // FIFO; popped from the front
	resumeFrom Address
}

// seedFromRoots enqueues every root whose current value is a live in-arena
// object, the initial seeding step for a fresh MARK phase.
func (c *Collector) seedFromRoots() {
	n := c.roots.len()
	for i := 0; i < n; i++ {
		x := *c.roots.at(i)
		if c.isLiveCandidate(x) {
			c.incr.gray = append(c.incr.gray, x)
		}
	}
}

// enqueueGray appends addr to the gray queue. Duplicate suppression
// happens at dequeue time (incrMark skips objects already MARKED), per the
// specification's §4.6, so producers never need to check first.
func (c *Collector) enqueueGray(addr Address) {
	c.incr.gray = append(c.incr.gray, addr)
}

// incrMark dequeues gray objects until either the queue empties or the sum
// of processed block_sizes reaches budget. An object already MARKED when
// dequeued is skipped (it was enqueued more than once), as is a FREE block
// reached through a stale field value; otherwise it is
// marked and every in-arena field is enqueued unconditionally. When the
// queue empties, the phase advances to SWEEP with the cursor reset to the
// first block.
func (c *Collector) incrMark(budget int64) {
	var done int64
	for done < budget {
		if len(c.incr.gray) == 0 {
			c.incr.phase = phaseSweep
			c.incr.resumeFrom = c.arena.firstPayload()
			return
		}

		x := c.incr.gray[0]
		c.incr.gray = c.incr.gray[1:]

		h := c.arena.getHeader(x)
		if h.mark != notMarked {
			continue
		}
		h.mark = marked
		c.arena.setHeader(x, h)
		done += h.blockSize

		fields := fieldCount(h)
		for idx := int64(0); idx < fields; idx++ {
			if c.cfg.SkipFirstField && idx == 0 {
				continue
			}
			y := Address(c.arena.readWord(fieldAddr(x, idx)))
			if c.isLiveCandidate(y) {
				c.enqueueGray(y)
			}
		}
	}
}

// incrSweep scans blocks starting at resumeFrom, applying the same
// per-block action as the stop-the-world sweep, until either budget bytes
// have been processed or the arena end is reached. Reaching the end flips
// the phase back to MARK, reseeds the gray queue from the current roots,
// and increments the incremental-cycle counter.
func (c *Collector) incrSweep(budget int64) {
	var done int64
	for done < budget {
		if c.incr.resumeFrom >= c.arena.End() {
			c.incr.phase = phaseMark
			c.incr.gray = c.incr.gray[:0]
			c.seedFromRoots()
			c.stats.incrementalCycle()
			return
		}

		payload := c.incr.resumeFrom
		h := c.arena.getHeader(payload)
		c.incr.resumeFrom = nextPayload(payload, h)
		done += h.blockSize

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
		case free:
			// already free
		}
	}
}

// incrementalWork performs one bounded slice of incremental collector
// work, dispatching to whichever phase is current. It is called from
// Collector.Allocate before every allocation, with budget = k * need
// (specification §4.6).
func (c *Collector) incrementalWork(budget int64) {
	if budget <= 0 {
		return
	}
	switch c.incr.phase {
	case phaseMark:
		c.incrMark(budget)
	case phaseSweep:
		c.incrSweep(budget)
	}
}

// resetIncrementalCycle clears every live block's mark back to NOT_MARKED
// (FREE blocks are left untouched), flushes the gray queue, reseeds it
// from the current roots and sets the phase to MARK. This is the first
// step of Collector.Collect in incremental mode: it forces a fresh cycle
// so the subsequent stop-the-world mark/sweep/merge runs against a clean
// slate, per specification §4.6.
func (c *Collector) resetIncrementalCycle() {
	payload := c.arena.firstPayload()
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		next := nextPayload(payload, h)
		if h.mark == marked {
			h.mark = notMarked
			c.arena.setHeader(payload, h)
		}
		payload = next
	}

	c.incr.gray = c.incr.gray[:0]
	c.incr.phase = phaseMark
	c.seedFromRoots()
}
