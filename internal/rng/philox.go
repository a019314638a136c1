package rng

import (
	"math"
	"math/bits"
)

// Philox4x32 round constants (Salmon et al., "Parallel random numbers: as easy as 1, 2, 3").
const (
	philoxM0 = 0xD2511F53
	philoxM1 = 0xCD9E8D57
	philoxW0 = 0x9E3779B9
	philoxW1 = 0xBB67AE85

	philoxRounds = 10
)

// philox computes one Philox4x32-10 block for ctr under key.
func philox(ctr [4]uint32, key [2]uint32) [4]uint32 {
	for i := 0; i < philoxRounds; i++ {
		hi0, lo0 := bits.Mul32(philoxM0, ctr[0])
		hi1, lo1 := bits.Mul32(philoxM1, ctr[2])
		ctr = [4]uint32{hi1 ^ ctr[1] ^ key[0], lo1, hi0 ^ ctr[3] ^ key[1], lo0}
		key[0] += philoxW0
		key[1] += philoxW1
	}
	return ctr
}

// Source is the shared reservation state. It is not safe for concurrent use;
// callers serialize Reserve behind their own lock.
type Source struct {
	key  [2]uint32
	next uint64
}

// New returns a Source keyed by seed.
func New(seed uint64) *Source {
	return &Source{key: [2]uint32{uint32(seed), uint32(seed >> 32)}}
}

// Reserve returns the next unused substream.
func (s *Source) Reserve() *Stream {
	st := &Stream{
		key: s.key,
		ctr: [4]uint32{0, 0, uint32(s.next), uint32(s.next >> 32)},
		pos: 4,
	}
	s.next++
	return st
}

// Reserved reports how many substreams have been handed out.
func (s *Source) Reserved() uint64 {
	return s.next
}

// Stream is a single substream. A Stream must only be used by one goroutine.
//
// The two high counter words hold the substream index, the two low words the
// block index within it.
type Stream struct {
	key [2]uint32
	ctr [4]uint32
	buf [4]uint32
	pos int
}

func (s *Stream) refill() {
	s.buf = philox(s.ctr, s.key)
	s.pos = 0
	s.ctr[0]++
	if s.ctr[0] == 0 {
		s.ctr[1]++
	}
}

// Uint32 returns the next 32 random bits.
func (s *Stream) Uint32() uint32 {
	if s.pos == len(s.buf) {
		s.refill()
	}
	v := s.buf[s.pos]
	s.pos++
	return v
}

// Uint64 returns the next 64 random bits.
func (s *Stream) Uint64() uint64 {
	return uint64(s.Uint32())<<32 | uint64(s.Uint32())
}

// Uint32N returns a uniform value in [0, n) using Lemire's multiply-shift
// rejection. It panics if n == 0.
func (s *Stream) Uint32N(n uint32) uint32 {
	if n == 0 {
		panic("rng: Uint32N with n == 0")
	}
	hi, lo := bits.Mul32(s.Uint32(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul32(s.Uint32(), n)
		}
	}
	return hi
}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN with n <= 0")
	}
	if uint64(n) <= math.MaxUint32 {
		return int(s.Uint32N(uint32(n)))
	}
	hi, lo := bits.Mul64(s.Uint64(), uint64(n))
	if lo < uint64(n) {
		thresh := -uint64(n) % uint64(n)
		for lo < thresh {
			hi, lo = bits.Mul64(s.Uint64(), uint64(n))
		}
	}
	return int(hi)
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}
