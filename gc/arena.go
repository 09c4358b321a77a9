// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The arena: a fixed-size contiguous byte buffer the collector owns
// exclusively. No client code may mutate it directly; the only door in is
// Collector.Allocate and the payload bytes it hands back.

package gc

import "unsafe"

// wordSize is W from the specification: the native pointer width, and the
// alignment of every block and of the arena's capacity. The header packing
// in header.go assumes a 64-bit word; NewArena rejects any other target
// rather than silently mis-laying out headers.
const wordSize = unsafe.Sizeof(uintptr(0))

// Address is an absolute machine address held as an integer: arena_start
// is the address of the backing buffer's first byte, and every address
// handed to the mutator or stored in a free-list link or object field is
// such a raw address. addrToIndex/indexToAddr convert between an Address
// and its byte offset from arena_start. Address(0) is never in the arena,
// so it serves as null.
type Address uintptr

// null is the zero Address: "no block", "end of free list", "null field".
const null Address = 0

// Arena owns the buffer. It is created once at collector construction and
// destroyed once at teardown (by simply releasing the Go slice); there is
// no dynamic growth, matching the specification's fixed-capacity model.
type Arena struct {
	buf  []byte
	base uintptr // uintptr(unsafe.Pointer(&buf[0]))
	size int64   // M
}

// NewArena allocates the backing buffer. capacity must be a positive
// multiple of wordSize; the first usable address (arena_start + W) must
// leave room for at least one header, which Collector's constructor
// enforces via Config.check, not here.
func NewArena(capacity int64) (*Arena, error) {
	if wordSize != 8 {
		return nil, &ErrINVAL{"NewArena: unsupported word size", wordSize}
	}
	if capacity <= 0 || capacity%int64(wordSize) != 0 {
		return nil, &ErrINVAL{"NewArena: capacity must be a positive multiple of wordSize", capacity}
	}

	buf := make([]byte, capacity)
	a := &Arena{
		buf:  buf,
		base: uintptr(unsafe.Pointer(&buf[0])),
		size: capacity,
	}
	return a, nil
}

// Size returns M, the arena's total capacity in bytes.
func (a *Arena) Size() int64 { return a.size }

// Start returns arena_start, the address of the first byte of the buffer.
func (a *Arena) Start() Address { return Address(a.base) }

// End returns arena_end, one past the last byte of the buffer.
func (a *Arena) End() Address { return Address(a.base) + Address(a.size) }

// contains reports whether addr lies in [arena_start, arena_end). It does
// not require addr to be aligned; callers that need alignment call
// aligned too.
func (a *Arena) contains(addr Address) bool {
	return addr >= a.Start() && addr < a.End()
}

// aligned reports whether addr is wordSize-aligned relative to arena_start.
func (a *Arena) aligned(addr Address) bool {
	return (uintptr(addr)-a.base)%uintptr(wordSize) == 0
}

// addrToIndex returns addr's offset from arena_start. The caller must
// guarantee addr lies in the arena and is word-aligned; this is cheap
// arithmetic, not a bounds check.
func (a *Arena) addrToIndex(addr Address) int64 {
	return int64(uintptr(addr) - a.base)
}

// indexToAddr is the inverse of addrToIndex.
func (a *Arena) indexToAddr(index int64) Address {
	return Address(a.base) + Address(index)
}

// ptr returns an unsafe.Pointer to addr, which must lie in [arena_start,
// arena_end]. (arena_end itself is a valid one-past-the-end pointer, used
// only for loop termination, never dereferenced.)
func (a *Arena) ptr(addr Address) unsafe.Pointer {
	invariant(addr >= a.Start() && addr <= a.End(), "Arena.ptr", addr, nil, nil)
	return unsafe.Pointer(uintptr(addr))
}

// readWord loads the word at addr, which must be word-aligned and lie in
// the arena with at least wordSize bytes remaining.
func (a *Arena) readWord(addr Address) uintptr {
	return *(*uintptr)(a.ptr(addr))
}

// writeWord stores v at addr, under the same preconditions as readWord.
func (a *Arena) writeWord(addr Address, v uintptr) {
	*(*uintptr)(a.ptr(addr)) = v
}

// zeroRange clears n bytes starting at addr to prevent stale pointer-shaped
// bit patterns from surviving into a freshly (re)used block, per the
// specification's over-large-but-unsplittable allocation clause.
func (a *Arena) zeroRange(addr Address, n int64) {
	if n <= 0 {
		return
	}
	b := (*[1 << 30]byte)(a.ptr(addr))[:n:n]
	for i := range b {
		b[i] = 0
	}
}
