// Package tlv implements a tag-length-value codec using the BER (Basic Encoding Rules) tag and length encodings. A
// TLV record is represented by a Node. Constructed nodes hold a chain of child nodes, which themselves are linked to
// their next sibling, forming a tree:
//
//	root (constructed, tag 1)
//	  ├─ primitive, tag 2: 64 66 67
//	  └─ constructed, tag 3
//	       └─ primitive, tag 35: 61 62 63 64
//
// The wire format of a single record is
//
//	byte0:      [class:2][form:1][tag:5]     tag field = 0x1F ⇒ continuation follows
//	tag cont.:  0..4 bytes, 7 bits each, MSB = more-follows flag
//	length:     1 byte short form (bit7=0, value 0..127)
//	            OR 1 byte long-form header (bit7=1, low7=N) + N big-endian bytes, N in 1..4
//	value:      raw payload (primitive) or concatenated child encodings (constructed)
//
// Use Parse to decode bytes into a tree and Encode to linearize a tree into bytes. Trees are not safe for concurrent
// mutation. Concurrent read-only traversals of an unmodified tree are fine.
package tlv

import (
	"fmt"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
)

var log = elog.Get("/eluvio/format/tlv")

// Class is the 2-bit tag namespace stored in the upper bits of the first header byte.
type Class byte

const (
	ClassUniversal       Class = 0x00
	ClassApplication     Class = 0x40
	ClassContextSpecific Class = 0x80
	ClassPrivate         Class = 0xC0
	// ClassInvalid is the class of a reset node. It is never encoded.
	ClassInvalid Class = 0xFF
)

const classMask = 0xC0

var classNames = map[Class]string{
	ClassUniversal:       "universal",
	ClassApplication:     "application",
	ClassContextSpecific: "context-specific",
	ClassPrivate:         "private",
	ClassInvalid:         "invalid",
}

// Valid returns true if the class is one of the four encodable classes.
func (c Class) Valid() bool {
	switch c {
	case ClassUniversal, ClassApplication, ClassContextSpecific, ClassPrivate:
		return true
	}
	return false
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(0x%02x)", byte(c))
}

func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.E("Class.MarshalText", errors.K.Invalid, InvalidState, "class", byte(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(text []byte) error {
	for cls, name := range classNames {
		if cls.Valid() && name == string(text) {
			*c = cls
			return nil
		}
	}
	return errors.E("Class.UnmarshalText", errors.K.Invalid, InvalidState, "class", string(text))
}

// Form distinguishes primitive nodes, whose value is an opaque payload, from constructed nodes, whose value is a
// sequence of nested nodes.
type Form byte

const (
	Primitive   Form = 0x00
	Constructed Form = 0x20
)

const formMask = 0x20

func (f Form) String() string {
	switch f {
	case Primitive:
		return "primitive"
	case Constructed:
		return "constructed"
	}
	return fmt.Sprintf("form(0x%02x)", byte(f))
}

const (
	// MaxTag is the largest tag that fits into 4 continuation bytes of 7 bits each.
	MaxTag = 1<<28 - 1
	// MaxLength is the largest length that fits into a long-form length field of 4 bytes.
	MaxLength = 1<<32 - 1

	shortTagLimit   = 0x1F // tags >= shortTagLimit use continuation bytes
	maxTagCont      = 4
	maxLengthBytes  = 4
	longFormBit     = 0x80
	maxShortLength  = 0x7F
	minHeaderLength = 2 // minimal tag byte + minimal length byte
)
