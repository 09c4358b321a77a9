// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

import (
	"math/rand"
	"testing"
)

// objInfo is the fuzz test's own mutator-side view of one allocated
// object: the field values it believes it has written, kept in lockstep
// with what it actually stores into the arena so its own independent
// reachability computation can be checked against the collector's.
type objInfo struct {
	fields []Address // length == fieldCount; index 0 meaningless when skipFirstField
}

// independentReachable computes the reachable set from roots using only
// the fuzz test's own graph bookkeeping, entirely independent of the
// collector's mark phase.
func independentReachable(roots []Address, graph map[Address]*objInfo, skipFirstField bool) map[Address]bool {
	seen := make(map[Address]bool)
	var stack []Address
	for _, r := range roots {
		if _, ok := graph[r]; ok && !seen[r] {
			seen[r] = true
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		n := len(stack) - 1
		x := stack[n]
		stack = stack[:n]
		info := graph[x]
		for idx, target := range info.fields {
			if skipFirstField && idx == 0 {
				continue
			}
			if target == null {
				continue
			}
			if _, ok := graph[target]; ok && !seen[target] {
				seen[target] = true
				stack = append(stack, target)
			}
		}
	}
	return seen
}

// TestRandomFuzz is the specification's seed scenario 6: repeatedly fill
// the arena, wire random cross-edges, sample roots, cross-check the
// collector's reachability decision against an independent traversal, and
// collect — over many cycles, never aborting.
func TestRandomFuzz(t *testing.T) {
	const (
		memSize    = 4096
		numCycles  = 200
		maxObjSize = 64
	)

	c := newTestCollector(t, Config{MaxMemory: memSize, MergeBlocks: true, SkipFirstField: true})
	rng := rand.New(rand.NewSource(1))

	graph := make(map[Address]*objInfo)
	var objs []Address
	var rootHandles []RootHandle
	var rootAddrs []Address

	for cycle := 0; cycle < numCycles; cycle++ {
		// Pop the previous cycle's roots (LIFO) before sampling a fresh set.
		for i := len(rootHandles) - 1; i >= 0; i-- {
			if err := c.PopRoot(rootHandles[i]); err != nil {
				t.Fatal(err)
			}
		}
		rootHandles = rootHandles[:0]
		rootAddrs = rootAddrs[:0]

		// (a) allocate random-size objects until the arena fills.
		for {
			size := rng.Int63n(maxObjSize) + 1
			addr, ok := c.Allocate(size)
			if !ok {
				break
			}
			h := c.arena.getHeader(addr)
			fc := fieldCount(h)
			info := &objInfo{fields: make([]Address, fc)}
			for idx := int64(0); idx < fc; idx++ {
				c.arena.writeWord(fieldAddr(addr, idx), 0)
			}
			graph[addr] = info
			objs = append(objs, addr)
		}

		// (b) wire random cross-edges via write_barrier.
		if len(objs) > 1 {
			wires := rng.Intn(len(objs) * 2)
			for i := 0; i < wires; i++ {
				src := objs[rng.Intn(len(objs))]
				dst := objs[rng.Intn(len(objs))]
				info := graph[src]
				fc := int64(len(info.fields))
				lo := int64(0)
				if c.cfg.SkipFirstField {
					lo = 1
				}
				if lo >= fc {
					continue
				}
				idx := lo + rng.Int63n(fc-lo)
				c.arena.writeWord(fieldAddr(src, idx), uintptr(dst))
				c.WriteBarrier(src, dst)
				info.fields[idx] = dst
			}
		}

		// (c) sample a subset of objects as roots.
		if len(objs) > 0 {
			n := rng.Intn(len(objs)/4 + 1)
			for i := 0; i < n; i++ {
				addr := objs[rng.Intn(len(objs))]
				h := root(addr)
				c.PushRoot(h)
				rootHandles = append(rootHandles, h)
				rootAddrs = append(rootAddrs, addr)
			}
		}

		// (d) independent depth-first reachability.
		reachable := independentReachable(rootAddrs, graph, c.cfg.SkipFirstField)

		// (e) collect.
		c.Collect()
		checkInvariants(t, c)

		// (f) cross-check.
		s := c.GetStats()
		if got, want := s.UsedBlocks, int64(len(reachable)); got != want {
			t.Fatalf("cycle %d: used_blocks=%d reachable=%d", cycle, got, want)
		}

		// Prune the mutator's own graph to the surviving object set and
		// scrub any field still pointing at a now-collected address, so
		// the next cycle never mistakes a stale bit pattern for an edge.
		newObjs := objs[:0]
		for _, addr := range objs {
			if reachable[addr] {
				newObjs = append(newObjs, addr)
			} else {
				delete(graph, addr)
			}
		}
		objs = append([]Address(nil), newObjs...)
		for _, addr := range objs {
			info := graph[addr]
			for idx, target := range info.fields {
				if target != null && !reachable[target] {
					info.fields[idx] = null
					c.arena.writeWord(fieldAddr(addr, int64(idx)), 0)
				}
			}
		}
	}
}
