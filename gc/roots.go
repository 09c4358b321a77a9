// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The root set: a stack of pointer-to-pointer handles registered by the
// mutator, pushed and popped in strict LIFO order.

package gc

// RootHandle is a mutator-owned slot holding an Address. The mutator
// registers the slot's address with PushRoot/PopRoot; the collector reads
// *RootHandle whenever it needs to know what the root currently points at,
// so updates the mutator makes to *h between collections are seen without
// any further registration.
type RootHandle = *Address

// rootStack is the LIFO sequence of registered handles.
type rootStack struct {
	handles []RootHandle
}

// push appends h to the top of the stack.
func (r *rootStack) push(h RootHandle) {
	r.handles = append(r.handles, h)
}

// pop checks that h is the current top and removes it. Popping a handle
// that is not the top is a contract violation (specification §4.3, §7);
// pop then returns ErrINVAL and leaves the stack unchanged.
func (r *rootStack) pop(h RootHandle) error {
	n := len(r.handles)
	if n == 0 || r.handles[n-1] != h {
		return &ErrINVAL{"rootStack.pop: handle is not the top of the root stack", h}
	}
	r.handles = r.handles[:n-1]
	return nil
}

// len reports how many roots are currently registered.
func (r *rootStack) len() int { return len(r.handles) }

// at returns the i'th handle, 0-indexed from the bottom of the stack.
func (r *rootStack) at(i int) RootHandle { return r.handles[i] }
