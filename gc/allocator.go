// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The allocator: first-fit search over the free-list with split /
// exact-fit / fill policies, grounded on lldb.Allocator.alloc's clause
// structure (exact fit, split, or take the whole oversize block) even
// though the on-arena representation here (singly-linked free-list threaded
// through payload words, one packed header word) is simpler than lldb's
// atom/handle/tag scheme — that scheme exists to survive on disk, which
// this in-memory arena never needs to.

package gc

// alignUp rounds n up to the next multiple of align, which must be a power
// of two.
func alignUp(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}

// newBlockMark decides the mark a freshly carved block is born with. Under
// the allocate-black rule (specification §4.2, §4.6), a block born at or
// after the incremental sweeper's cursor must not be reclaimed in the
// cycle of its birth, so it starts MARKED instead of NOT_MARKED.
func (c *Collector) newBlockMark(addr Address) mark {
	if c.cfg.Incremental && c.incr.phase == phaseSweep && addr >= c.incr.resumeFrom {
		return marked
	}
	return notMarked
}

// allocate implements the specification's §4.2 contract. It assumes any
// incremental work slice has already been performed by the caller
// (Collector.Allocate) — allocate itself only does the free-list scan.
func (c *Collector) allocate(bytes int64) (Address, bool) {
	if bytes <= 0 {
		panic(&ErrINVAL{"Collector.allocate: bytes must be > 0", bytes})
	}

	need := alignUp(int64(wordSize)+bytes, int64(wordSize))

	var prev Address = null
	cur := c.free.head
	for cur != null {
		h := c.arena.getHeader(cur)
		assert(h.mark == free, "Collector.allocate: free-list entry", cur, h.mark, free)

		next := c.arena.freeNext(cur)

		switch {
		case h.blockSize == need:
			// Exact fit.
			c.free.unlink(c.arena, prev, cur)
			c.arena.setHeader(cur, header{blockSize: h.blockSize, done: 0, mark: c.newBlockMark(cur)})
			c.stats.takeUsed(h.blockSize)
			return cur, true

		case h.blockSize-need >= int64(wordSize)*2:
			// Splittable: the tail can host a header plus at least one
			// payload word.
			c.free.unlink(c.arena, prev, cur)
			tailSize := h.blockSize - need

			c.arena.setHeader(cur, header{blockSize: need, done: 0, mark: c.newBlockMark(cur)})

			tailHeaderAddr := headerAddr(cur) + Address(need)
			tailPayload := tailHeaderAddr + Address(wordSize)
			c.arena.setHeader(tailPayload, header{blockSize: tailSize, done: 0, mark: free})
			c.free.pushFront(c.arena, tailPayload)

			c.stats.growBlocks()
			c.stats.takeUsed(need)
			return cur, true

		case h.blockSize > need:
			// Over-large but unsplittable: keep the whole block, zero the
			// unused tail so stale pointer bit patterns cannot survive
			// into it.
			c.free.unlink(c.arena, prev, cur)
			unusedStart := cur + Address(bytes)
			unusedLen := payloadSize(h) - bytes
			c.arena.zeroRange(unusedStart, unusedLen)
			c.arena.setHeader(cur, header{blockSize: h.blockSize, done: 0, mark: c.newBlockMark(cur)})
			c.stats.takeUsed(h.blockSize)
			return cur, true

		default:
			prev = cur
			cur = next
		}
	}

	return null, false
}
