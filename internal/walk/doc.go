// Package walk implements the walk policies that turn a start node and a
// random source into one fixed-length walk row.
//
// Policy is a closed set with two variants selected at construction:
//
//   - Uniform: first-order walk. Unweighted graphs pick a neighbor uniformly,
//     weighted graphs sample a per-node alias table.
//   - Node2Vec: second-order walk biased by return parameter p and in-out
//     parameter q through an EdgeAliasMap built eagerly at load time.
//
// Policies are immutable after construction. Row may be called from any
// number of goroutines as long as each passes its own random source.
package walk
