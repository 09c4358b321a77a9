// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gcbench is a thin driver around package gc, in the spirit of
// lldb/lab/1's minimal-wiring and lldb/db_bench's benchmark-loop shape:
// build one Collector from flag-driven configuration, hammer it with
// allocate/push-root/collect traffic, and print a stats dump.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/cznic/mathutil"
	"github.com/google/uuid"

	"arenagc/gc"
)

var (
	maxMemory   = flag.Int64("mem", 1<<20, "arena capacity in bytes")
	iterations  = flag.Int("n", 100000, "number of allocate/retire iterations")
	maxAlloc    = flag.Int64("max-alloc", 256, "largest single allocation request in bytes")
	incremental = flag.Bool("incremental", false, "enable the incremental engine")
	merge       = flag.Bool("merge", true, "coalesce free blocks on every collection")
	seed        = flag.Int64("seed", 42, "PRNG seed")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	runID := uuid.New().String()
	log.Printf("gcbench run %s starting: mem=%d n=%d incremental=%v", runID, *maxMemory, *iterations, *incremental)

	c, err := gc.NewCollector(gc.Config{
		MaxMemory:   *maxMemory,
		MergeBlocks: *merge,
		Incremental: *incremental,
	})
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewSource(*seed))
	var live []gc.RootHandle

	for i := 0; i < *iterations; i++ {
		// Draw from a wider range than maxAlloc so the clamp below is a
		// real bound on the request-size distribution, not a no-op: about
		// half of the draws land above maxAlloc and get pulled back down.
		want := mathutil.MinInt64(rng.Int63n(2*(*maxAlloc))+1, *maxAlloc)

		addr, ok := c.Allocate(want)
		if !ok {
			c.Collect()
			addr, ok = c.Allocate(want)
			if !ok {
				log.Printf("run %s: allocation failure at iteration %d after collection, stopping", runID, i)
				break
			}
		}

		if rng.Intn(4) == 0 {
			h := new(gc.Address)
			*h = addr
			c.PushRoot(h)
			live = append(live, h)
		}

		if len(live) > 0 && rng.Intn(8) == 0 {
			j := rng.Intn(len(live))
			h := live[j]
			if err := c.PopRoot(h); err == nil {
				live[j] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		}

		if rng.Intn(500) == 0 {
			c.Collect()
		}
	}

	c.Collect()
	if err := c.Dump(os.Stdout); err != nil {
		log.Fatal(err)
	}
	log.Printf("gcbench run %s done", runID)
}
