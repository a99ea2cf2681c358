package byteutil

// LenUvarInt returns the number of bytes needed to encode the given uint64 as varint, i.e. the number of 7-bit groups
// of x. This is also the length of a base-128 encoded BER tag continuation.
func LenUvarInt(x uint64) int {
	i := 0
	for x >= 0x80 {
		x >>= 7
		i++
	}
	return i + 1
}
