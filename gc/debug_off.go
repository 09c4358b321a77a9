// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build release

package gc

// debug is false when built with "-tags release": the O(n) consistency
// assertions in consistency.go and the assert-gated checks elsewhere in
// the package are elided, per the specification's §7 allowance that
// release builds may drop the expensive contract-violation detectors.
const debug = false
