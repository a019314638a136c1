// Package s3 implements blobstore.BlobStore on Amazon S3.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "walks/")
//
// Reads are ranged GETs, streaming writes go through the multipart upload
// manager and Put attaches a CRC32C checksum.
package s3
