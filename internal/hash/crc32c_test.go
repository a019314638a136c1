package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 B.4 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
}

func TestCRC32CBase64(t *testing.T) {
	// 0xe3069283 big-endian.
	assert.Equal(t, "4waSgw==", CRC32CBase64([]byte("123456789")))
}
