// Package alias implements Walker's alias method (Vose's variant) for O(1)
// sampling from a discrete weighted distribution.
//
// A Table is built once in O(n) and then sampled with two random draws: a
// bucket index and a coin flip against the bucket's threshold.
package alias
