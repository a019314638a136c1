// Package testutil provides fixtures and statistics helpers for walkgen tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Graph Fixtures
//
//	g := testutil.Cycle(t, 4)   // 0-1-2-3-0, undirected
//	g := testutil.Star(t, 5)    // hub 0 with leaves 1..5
//
// # Distribution Checks
//
//	stat := testutil.ChiSquare(counts, probs)
//	assert.Less(t, stat, testutil.ChiSquareCritical(len(counts)-1))
package testutil
