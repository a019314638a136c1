// Package hash provides the CRC32-Castagnoli (CRC32C) checksums attached to
// uploaded blobs.
//
//	checksum := hash.CRC32C(data)
//	header := hash.CRC32CBase64(data) // x-amz-checksum-crc32c
//
// Go's crc32 package uses hardware instructions (SSE4.2, ARM CRC) when
// available.
package hash
