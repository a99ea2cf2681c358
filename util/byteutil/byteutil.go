package byteutil

import (
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandomBytes returns a slice of the given length filled with pseudo-random bytes.
func RandomBytes(length int) []byte {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return b
}

// LenBigEndian returns the minimal number of bytes needed to represent the given uint64 in big endian format. Zero
// needs no bytes at all.
func LenBigEndian(x uint64) int {
	n := 0
	for ; x > 0; x >>= 8 {
		n++
	}
	return n
}

// PutBigEndian writes the n least significant bytes of x in big endian order to the start of dst. dst must be at
// least n bytes long.
func PutBigEndian(dst []byte, x uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		dst[i] = byte(x)
		x >>= 8
	}
}

// BigEndian interprets the given bytes as unsigned big endian integer. Leading bytes beyond 8 are shifted out.
func BigEndian(bts []byte) uint64 {
	var x uint64
	for _, b := range bts {
		x = x<<8 | uint64(b)
	}
	return x
}
