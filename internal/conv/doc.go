// Package conv provides safe integer type conversion utilities.
//
// Use cases:
//   - Assigning dense int32 node ids while a graph is read
//   - Sizing memory mappings from file sizes reported as int64
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices bounded by the node count), use direct type casts instead.
package conv
