// Package resource governs the shared resources of a generator.
//
//   - Memory: a fail-fast budget for eagerly built node2vec alias tables
//   - Workers: the goroutine bound for table construction and refill shards
//   - Emission: a token bucket pacing batches handed out by Run and Stream
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	    Workers:          8,
//	    BatchesPerSecond: 50,
//	})
//
//	if !rc.TryAcquireMemory(n) {
//	    return resource.ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(n)
//
// All methods are safe for concurrent use, and every method on a nil
// *Controller is a no-op that never limits.
package resource
