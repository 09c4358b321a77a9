// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !release

package gc

// debug is true in the default build: the O(n) consistency assertions in
// consistency.go and the assert-gated checks elsewhere in the package run
// on every call they guard.
const debug = true
