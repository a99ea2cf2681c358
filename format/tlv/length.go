package tlv

import (
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/tlv-go/util/byteutil"
)

// LengthLen returns the number of bytes of the length field encoding the given length.
func LengthLen(length int) int {
	if length <= maxShortLength {
		return 1
	}
	return 1 + byteutil.LenBigEndian(uint64(length))
}

// AppendLength appends the BER encoding of the given length to dst and returns the extended slice.
//
// Lengths 0-127 use the short form: a single byte with the high bit clear. Larger lengths use the long form: a byte
// 0x80|N followed by N big-endian bytes, where N is the minimal byte count (1-4) such that length < 256^N.
func AppendLength(dst []byte, length int) ([]byte, error) {
	e := errors.TemplateNoTrace("AppendLength", errors.K.Invalid)
	if length < 0 {
		return dst, e(InvalidValueLength, "length", length)
	}
	if length <= maxShortLength {
		return append(dst, byte(length)), nil
	}

	n := byteutil.LenBigEndian(uint64(length))
	if n > maxLengthBytes {
		return dst, e(LengthTooLong, "length", length, "length_bytes", n)
	}
	dst = append(dst, longFormBit|byte(n))
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	byteutil.PutBigEndian(dst[start:], uint64(length), n)
	return dst, nil
}

// DecodeLength decodes the length field at the start of buf. It returns the length and the number of bytes consumed.
// The indefinite form (0x80) is not supported and rejected like any long form with more than 4 length bytes.
func DecodeLength(buf []byte) (length int, n int, err error) {
	e := errors.TemplateNoTrace("DecodeLength", errors.K.Invalid)
	if len(buf) == 0 {
		return 0, 0, e(TruncatedInput, "reason", "missing length field")
	}

	b0 := buf[0]
	if b0&longFormBit == 0 {
		return int(b0), 1, nil
	}

	cnt := int(b0 &^ longFormBit)
	if cnt == 0 {
		return 0, 0, e(LengthTooLong, "reason", "indefinite length not supported")
	}
	if cnt > maxLengthBytes {
		return 0, 0, e(LengthTooLong, "length_bytes", cnt, "max_bytes", maxLengthBytes)
	}
	if len(buf)-1 < cnt {
		return 0, 0, e(TruncatedInput, "reason", "buffer ends within length field",
			"length_bytes", cnt,
			"available", len(buf)-1)
	}

	l := byteutil.BigEndian(buf[1 : 1+cnt])
	if uint64(int(l)) != l || int(l) < 0 {
		return 0, 0, e(LengthTooLong, "length", l)
	}
	return int(l), 1 + cnt, nil
}
