// Package rng provides a counter-based pseudo random generator (Philox4x32-10).
//
// A Source holds the only mutable state shared between refill shards: the index
// of the next unreserved substream. Reserve hands out a Stream that owns the
// whole 2^64-block counter range of one substream, so streams reserved from the
// same Source never produce overlapping output.
//
//	src := rng.New(seed)
//	s := src.Reserve() // under the caller's lock
//	go func() {
//	    n := s.IntN(10) // no further synchronization
//	}()
//
// Output is a pure function of (seed, substream, draw index), which makes runs
// reproducible as long as substreams are reserved in the same order.
package rng
