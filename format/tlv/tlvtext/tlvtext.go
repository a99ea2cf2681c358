// Package tlvtext converts the payload of primitive TLV nodes to and from text. Payloads are either UTF-8 or use a
// legacy single-byte code page.
package tlvtext

import (
	"strings"
	"unicode/utf8"

	"github.com/eluv-io/errors-go"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/eluv-io/tlv-go/format/tlv"
)

// Encoding is the character encoding of a text payload.
type Encoding struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
}

var (
	UTF8        = Encoding{name: "UTF-8"}
	Latin1      = Encoding{name: "ISO-8859-1", enc: charmap.ISO8859_1}
	Windows1252 = Encoding{name: "windows-1252", enc: charmap.Windows1252}
	CP437       = Encoding{name: "IBM437", enc: charmap.CodePage437}
)

func (e Encoding) String() string {
	return e.name
}

var known = []Encoding{UTF8, Latin1, Windows1252, CP437}

// ByName looks up an encoding by its IANA name or alias, e.g. "utf-8", "latin1" or "cp437". Only UTF-8 and
// single-byte code pages are supported.
func ByName(name string) (Encoding, error) {
	e := errors.Template("tlvtext.ByName", errors.K.Invalid, "name", name)
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return Encoding{}, e(err)
	}
	if enc == nil {
		return Encoding{}, e("reason", "encoding not supported")
	}
	if enc == unicode.UTF8 {
		return UTF8, nil
	}
	if _, ok := enc.(*charmap.Charmap); !ok {
		return Encoding{}, e("reason", "not a single-byte encoding")
	}
	for _, k := range known {
		if k.enc == enc {
			return k, nil
		}
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil || canonical == "" {
		canonical = strings.ToUpper(strings.TrimSpace(name))
	}
	return Encoding{name: canonical, enc: enc}, nil
}

// Encode converts the given string to the byte representation of the encoding. Characters that the encoding cannot
// represent result in an error.
func Encode(enc Encoding, s string) ([]byte, error) {
	if enc.enc == nil {
		return []byte(s), nil
	}
	res, err := enc.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.E("tlvtext.Encode", errors.K.Invalid, err, "encoding", enc.name)
	}
	return res, nil
}

// Decode converts the given bytes of the encoding to a string. UTF-8 payloads must be valid UTF-8.
func Decode(enc Encoding, bts []byte) (string, error) {
	if enc.enc == nil {
		if !utf8.Valid(bts) {
			return "", errors.E("tlvtext.Decode", errors.K.Invalid,
				"reason", "invalid utf-8",
				"encoding", enc.name)
		}
		return string(bts), nil
	}
	res, err := enc.enc.NewDecoder().Bytes(bts)
	if err != nil {
		return "", errors.E("tlvtext.Decode", errors.K.Invalid, err, "encoding", enc.name)
	}
	return string(res), nil
}

// NewPrimitiveString creates a primitive node with the given string as payload, encoded with enc.
func NewPrimitiveString(tag int, class tlv.Class, s string, enc Encoding, opts ...tlv.Option) (*tlv.Node, error) {
	e := errors.Template("tlvtext.NewPrimitiveString", errors.K.Invalid, "tag", tag)
	value, err := Encode(enc, s)
	if err != nil {
		return nil, e(err)
	}
	n, err := tlv.NewPrimitive(tag, class, value, opts...)
	if err != nil {
		return nil, e(err)
	}
	return n, nil
}

// String returns the payload of the given primitive node as string, decoded with enc.
func String(n *tlv.Node, enc Encoding) (string, error) {
	if n.IsConstructed() {
		return "", errors.E("tlvtext.String", errors.K.Invalid, tlv.InvalidState,
			"reason", "constructed node has no text payload",
			"tag", n.Tag())
	}
	return Decode(enc, n.Value())
}
