package tlv

import (
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/tlv-go/util/byteutil"
)

// TagHeaderLen returns the number of bytes of the tag header encoding the given tag: one byte for tags below 31, one
// byte plus the base-128 continuation bytes otherwise.
func TagHeaderLen(tag int) int {
	if tag < shortTagLimit {
		return 1
	}
	return 1 + byteutil.LenUvarInt(uint64(tag))
}

// AppendTagHeader appends the tag header for the given class, form and tag to dst and returns the extended slice.
//
// Tags below 31 are packed with class and form into a single byte. Larger tags set the tag field of the first byte to
// 0x1F and follow it with the tag in 7-bit big-endian groups, where all but the last group have the high bit set.
func AppendTagHeader(dst []byte, class Class, form Form, tag int) ([]byte, error) {
	e := errors.TemplateNoTrace("AppendTagHeader", errors.K.Invalid)
	if tag < 0 || tag > MaxTag {
		return dst, e(InvalidTag, "tag", tag)
	}
	if !class.Valid() {
		return dst, e(InvalidState, "reason", "invalid class", "class", class)
	}
	if form != Primitive && form != Constructed {
		return dst, e(InvalidState, "reason", "invalid form", "form", form)
	}

	first := byte(class) | byte(form)
	if tag < shortTagLimit {
		return append(dst, first|byte(tag)), nil
	}

	dst = append(dst, first|shortTagLimit)
	n := byteutil.LenUvarInt(uint64(tag))
	for i := n - 1; i >= 0; i-- {
		b := byte(tag>>(7*i)) & 0x7F
		if i > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst, nil
}

// DecodeTagHeader decodes the tag header at the start of buf. It returns the class, form and tag number as well as
// the number of bytes consumed.
//
// Long-form tags must be minimally encoded: a first continuation byte of 0x80 or a tag below 31 are rejected as
// malformed, which guarantees that re-encoding a decoded header reproduces the original bytes.
func DecodeTagHeader(buf []byte) (class Class, form Form, tag int, n int, err error) {
	e := errors.TemplateNoTrace("DecodeTagHeader", errors.K.Invalid)
	if len(buf) == 0 {
		return 0, 0, 0, 0, e(CorruptBuffer, "reason", "empty buffer")
	}

	b0 := buf[0]
	class = Class(b0 & classMask)
	form = Form(b0 & formMask)
	if b0&shortTagLimit != shortTagLimit {
		return class, form, int(b0 & shortTagLimit), 1, nil
	}

	acc := 0
	for i := 1; ; i++ {
		if i > maxTagCont {
			return 0, 0, 0, 0, e(MalformedTag, "reason", "tag continuation exceeds limit", "max_bytes", maxTagCont)
		}
		if i >= len(buf) {
			return 0, 0, 0, 0, e(MalformedTag, "reason", "buffer ends within tag continuation", "offset", i)
		}
		b := buf[i]
		if i == 1 && b == 0x80 {
			return 0, 0, 0, 0, e(MalformedTag, "reason", "tag continuation not minimal", "offset", i)
		}
		acc = acc<<7 | int(b&0x7F)
		if b&0x80 == 0 {
			n = i + 1
			break
		}
	}
	if acc < shortTagLimit {
		return 0, 0, 0, 0, e(MalformedTag, "reason", "long form used for short tag", "tag", acc)
	}
	return class, form, acc, n, nil
}
