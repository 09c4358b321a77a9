// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gc

// Config amends the behaviour of NewCollector, in the style of
// lldb/dbm's Options: exported fields, documented individually, validated
// once via check before use. The compatibility promise is the same one
// dbm.Options documents — new fields may be added, existing ones keep
// their meaning.
type Config struct {
	// MaxMemory is the arena's capacity in bytes: M in the specification.
	// Must be a positive multiple of the native word size and strictly
	// below the largest block_size the packed header can represent.
	MaxMemory int64

	// MergeBlocks, if true, runs a coalescing pass at the end of every
	// stop-the-world cycle (and at the end of every incremental cycle's
	// synchronous finish), joining adjacent free blocks to fight external
	// fragmentation.
	MergeBlocks bool

	// SkipFirstField, if true, excludes field index 0 of every block from
	// pointer scanning during marking. Client layouts that reserve slot 0
	// for a non-pointer tag word set this.
	SkipFirstField bool

	// Incremental, if true, enables the incremental engine: allocations
	// perform bounded mark/sweep work slices, newly allocated blocks are
	// subject to the allocate-black rule, and WriteBarrier performs
	// Dijkstra incremental-update enqueues.
	Incremental bool

	// IncrementalRate is k in "k x need bytes of incremental work per
	// byte allocated" (see the specification's §4.6). Zero means the
	// default of 4.
	IncrementalRate int64

	checked bool
}

const defaultIncrementalRate = 4

// check validates and normalizes c in place, mirroring dbm.Options.check's
// "run once, then treat as trusted" shape.
func (c *Config) check() error {
	if c.checked {
		return nil
	}

	if c.MaxMemory <= 0 || c.MaxMemory%int64(wordSize) != 0 {
		return &ErrINVAL{"Config.MaxMemory must be a positive multiple of the word size", c.MaxMemory}
	}
	if c.MaxMemory >= maxBlockSize {
		return &ErrINVAL{"Config.MaxMemory must be strictly below the maximum representable block_size", c.MaxMemory}
	}
	if c.IncrementalRate < 0 {
		return &ErrINVAL{"Config.IncrementalRate must not be negative", c.IncrementalRate}
	}
	if c.IncrementalRate == 0 {
		c.IncrementalRate = defaultIncrementalRate
	}

	c.checked = true
	return nil
}
