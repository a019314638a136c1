// Package precompute implements the ring buffer of walk rows that a
// generator serves batches from.
//
// The buffer holds Capacity rows of WalkLength node ids. Reading a row when
// the slack (rows written but not yet read) is at or below LowWaterMark first
// refills every slot except the one just behind the read cursor. The refill
// span is split into at most Fanout shards of at least MinShardRows rows; each
// shard gets a disjoint range of ring slots, a disjoint range of start-node
// positions and its own RNG substream, all assigned before the shards run.
// The shards then execute in parallel on up to Workers goroutines.
//
// Buffer has no internal locking. The owner serializes every call.
package precompute
