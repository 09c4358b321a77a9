// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Block metadata: the fixed-size header that precedes every block, free or
// used. Packing (block_size, done, mark) into a single word avoids a
// separate metadata side-table and keeps the arena walk branch-free, at the
// cost of capping a single arena at ~4GiB (32-bit block_size) — a tradeoff
// the specification calls out explicitly as a tunable.

package gc

// mark is the tri-color state of a block, restricted to the two colors a
// stop-the-world collector ever observes plus FREE. The gray set in
// incremental mode lives entirely in the mark queue (see incremental.go),
// not in this field.
type mark uint16

const (
	notMarked mark = iota
	marked
	free
)

func (m mark) valid() bool { return m <= free }

func (m mark) String() string {
	switch m {
	case notMarked:
		return "NOT_MARKED"
	case marked:
		return "MARKED"
	case free:
		return "FREE"
	default:
		return "INVALID"
	}
}

// header is the decoded, in-memory view of the packed on-arena word.
type header struct {
	blockSize int64 // multiple of wordSize, <= M
	done      int64 // index of next field to inspect during DSW marking
	mark      mark
}

// Bit layout of the packed word, sized per the specification's budget note
// (32-bit size, 16-bit done, 16-bit mark on a 64-bit target):
const (
	sizeBits = 32
	doneBits = 16
	markBits = 16

	sizeMask = (uint64(1) << sizeBits) - 1
	doneMask = (uint64(1) << doneBits) - 1
	markMask = (uint64(1) << markBits) - 1

	doneShift = sizeBits
	markShift = sizeBits + doneBits
)

// maxBlockSize is the largest block_size representable in the packed
// header, which the specification requires to be >= M.
const maxBlockSize = int64(sizeMask)

func encodeHeader(h header) uintptr {
	w := uint64(h.blockSize) & sizeMask
	w |= (uint64(h.done) & doneMask) << doneShift
	w |= (uint64(h.mark) & markMask) << markShift
	return uintptr(w)
}

func decodeHeader(word uintptr) header {
	w := uint64(word)
	return header{
		blockSize: int64(w & sizeMask),
		done:      int64((w >> doneShift) & doneMask),
		mark:      mark((w >> markShift) & markMask),
	}
}

// headerAddr returns the address of the header for the block whose payload
// starts at payload.
func headerAddr(payload Address) Address {
	return payload - Address(wordSize)
}

// getHeader reads and decodes the header preceding payload. As a debug
// precondition it checks block_size <= M and that mark is one of the three
// legal values — a cheap corruption detector run unconditionally, per the
// specification's §4.1.
func (a *Arena) getHeader(payload Address) header {
	h := decodeHeader(a.readWord(headerAddr(payload)))
	invariant(h.blockSize <= a.size, "Arena.getHeader: block_size", payload, h.blockSize, a.size)
	invariant(h.mark.valid(), "Arena.getHeader: mark", payload, h.mark, "NOT_MARKED|MARKED|FREE")
	return h
}

// setHeader encodes and writes h as the header preceding payload.
func (a *Arena) setHeader(payload Address, h header) {
	a.writeWord(headerAddr(payload), encodeHeader(h))
}

// payloadSize returns payload_size = block_size - W for a block whose
// header is h.
func payloadSize(h header) int64 {
	return h.blockSize - int64(wordSize)
}

// fieldCount returns the number of word-sized fields in a block's payload,
// i.e. payload_size / W, the field count the DSW marker and the
// incremental scanner both iterate over.
func fieldCount(h header) int64 {
	return payloadSize(h) / int64(wordSize)
}

// fieldAddr returns the address of the field at the given index (0-based)
// within payload's fields.
func fieldAddr(payload Address, index int64) Address {
	return payload + Address(index)*Address(wordSize)
}
