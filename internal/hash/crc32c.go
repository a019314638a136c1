package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// CRC32CBase64 returns the checksum of data as big-endian bytes in standard
// base64, the form S3 expects in x-amz-checksum-crc32c.
func CRC32CBase64(data []byte) string {
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], CRC32C(data))
	return base64.StdEncoding.EncodeToString(sum[:])
}
