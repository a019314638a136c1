// Package sink delivers walk batches to downstream consumers.
//
// BlobSink writes rotating shards of walks, one walk per line, into any
// blobstore.BlobStore (local disk, S3, MinIO) with optional compression.
// RedisSink appends every batch to a Redis stream for online trainers.
package sink
