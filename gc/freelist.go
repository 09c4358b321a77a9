// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The free-list: a singly-linked list of free blocks threaded through the
// arena itself. Every block reachable from its head has mark == free; the
// list is exactly the set of free blocks, no more, no less (a universal
// invariant checked by Collector.assertArenaConsistent in debug builds).

package gc

// freeList holds the head of the singly-linked list of free blocks. The
// successor pointer lives in the first payload word of each free block, so
// the list costs nothing beyond the blocks it threads through.
type freeList struct {
	head Address
}

// freeNext returns the successor of the free block at payload.
func (a *Arena) freeNext(payload Address) Address {
	return Address(a.readWord(payload))
}

// setFreeNext sets the successor of the free block at payload.
func (a *Arena) setFreeNext(payload Address, next Address) {
	a.writeWord(payload, uintptr(next))
}

// pushFront links payload onto the front of the list as the new head. The
// caller is responsible for having already marked payload's header free;
// pushFront only threads the list pointer.
func (fl *freeList) pushFront(a *Arena, payload Address) {
	a.setFreeNext(payload, fl.head)
	fl.head = payload
}

// unlink removes the free block at cur from the list. prev must be the
// block currently preceding cur, or null if cur is the current head.
func (fl *freeList) unlink(a *Arena, prev, cur Address) {
	next := a.freeNext(cur)
	if prev == null {
		assert(fl.head == cur, "freeList.unlink: head", cur, fl.head, cur)
		fl.head = next
		return
	}
	a.setFreeNext(prev, next)
}

// reset empties the list without touching any block header; used by merge,
// which rebuilds the whole list from a linear scan.
func (fl *freeList) reset() {
	fl.head = null
}

// walk returns, in list order, the payload addresses of every block
// currently on the free-list. It is used by debug invariant checks, never
// on a hot path.
func (fl *freeList) walk(a *Arena) []Address {
	var out []Address
	for cur := fl.head; cur != null; cur = a.freeNext(cur) {
		out = append(out, cur)
	}
	return out
}
