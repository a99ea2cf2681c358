package tlv

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrimitive(t *testing.T) {
	n, rest, err := Parse([]byte{0x02, 0x03, 0x64, 0x66, 0x67})
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, 2, n.Tag())
	require.Equal(t, ClassUniversal, n.Class())
	require.Equal(t, Primitive, n.Form())
	require.Equal(t, 3, n.Length())
	require.Equal(t, []byte{0x64, 0x66, 0x67}, n.Value())
	require.Nil(t, n.Child())
	require.Nil(t, n.Sibling())
}

func TestParseConstructed(t *testing.T) {
	n, rest, err := Parse([]byte{0x20, 0x03, 0x05, 0x01, 0xaa})
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, 0, n.Tag())
	require.Equal(t, Constructed, n.Form())
	require.Nil(t, n.Value())
	require.Equal(t, 0, n.Length())
	require.Equal(t, 0, n.Depth())

	c := n.Child()
	require.NotNil(t, c)
	require.Equal(t, 5, c.Tag())
	require.Equal(t, []byte{0xaa}, c.Value())
	require.Equal(t, 1, c.Depth())
	require.Nil(t, c.Sibling())
}

func TestParseNested(t *testing.T) {
	// 1 (application, constructed)
	//   2: "abc"
	//   3 (constructed)
	//     30 (constructed, empty)
	//     2222 (private): "abcd"
	//   4 (context-specific): ""
	buf := []byte{
		0x61, 0x13,
		0x02, 0x03, 'a', 'b', 'c',
		0x23, 0x0a,
		0x3e, 0x00,
		0xdf, 0x91, 0x2e, 0x04, 'a', 'b', 'c', 'd',
		0x84, 0x00,
	}
	n, rest, err := Parse(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, ClassApplication, n.Class())
	require.Equal(t, []int{2, 3, 4}, tags(n.Children()))

	c3 := n.FindTag(3)
	require.Equal(t, []int{30, 2222}, tags(c3.Children()))
	require.Equal(t, 1, c3.Depth())
	require.Nil(t, c3.Value())

	c30 := n.FindTag(30)
	require.True(t, c30.IsConstructed())
	require.Nil(t, c30.Child())
	require.Equal(t, 2, c30.Depth())

	c2222 := n.FindTag(2222)
	require.Equal(t, ClassPrivate, c2222.Class())
	require.Equal(t, []byte("abcd"), c2222.Value())
	require.Equal(t, 2, c2222.Depth())

	c4 := n.FindTag(4)
	require.Equal(t, ClassContextSpecific, c4.Class())
	require.Nil(t, c4.Value())
	require.Equal(t, 0, c4.Length())

	out, err := Encode(n)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestParseConsecutive(t *testing.T) {
	buf := []byte{
		0x01, 0x01, 0xff,
		0x20, 0x03, 0x05, 0x01, 0xaa,
		0x04, 0x00,
	}

	var got []int
	rest := buf
	for len(rest) > 0 {
		var n *Node
		var err error
		n, rest, err = Parse(rest)
		require.NoError(t, err)
		got = append(got, n.Tag())
	}
	require.Equal(t, []int{1, 0, 4}, got)

	n, err := ParseAll(buf)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 4}, tags(n.Siblings()))
	for _, s := range n.Siblings() {
		require.Equal(t, 0, s.Depth())
	}

	out, err := EncodeAll(n)
	require.NoError(t, err)
	require.Equal(t, buf, out)

	n, err = ParseAll(nil)
	require.NoError(t, err)
	require.Nil(t, n)
}

func TestParseAt(t *testing.T) {
	buf := []byte{0xee, 0xee, 0x02, 0x01, 0x07, 0x02, 0x01, 0x08, 0xee}

	n, rest, err := ParseAt(buf, 2, 6)
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, n.Value())
	require.Equal(t, []byte{0x02, 0x01, 0x08}, rest)

	for _, w := range [][2]int{{-1, 2}, {2, -1}, {10, 0}, {2, 8}} {
		_, _, err = ParseAt(buf, w[0], w[1])
		require.Equal(t, CorruptBuffer, CodeOf(err), w)
	}
}

func TestParseCopiesValues(t *testing.T) {
	buf := []byte{0x20, 0x03, 0x05, 0x01, 0xaa}
	n, _, err := Parse(buf)
	require.NoError(t, err)

	buf[4] = 0xbb
	require.Equal(t, []byte{0xaa}, n.Child().Value())
}

func TestParseLongForms(t *testing.T) {
	value := bytes.Repeat([]byte{0x5a}, 300)
	buf := append([]byte{0x1f, 0x91, 0x2e, 0x82, 0x01, 0x2c}, value...)

	n, rest, err := Parse(append(buf, 0x00, 0x00))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, rest)
	require.Equal(t, 2222, n.Tag())
	require.Equal(t, 300, n.Length())
	require.Equal(t, value, n.Value())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		code Code
	}{
		{"empty", []byte{}, CorruptBuffer},
		{"tag only", []byte{0x04}, CorruptBuffer},
		{"unterminated tag", []byte{0x1f, 0x81, 0x81}, MalformedTag},
		{"tag continuation too long", []byte{0x1f, 0x81, 0x81, 0x81, 0x81, 0x01, 0x00}, MalformedTag},
		{"missing length", []byte{0x1f, 0x21}, TruncatedInput},
		{"truncated length", []byte{0x04, 0x82, 0x01}, TruncatedInput},
		{"length too long", []byte{0x04, 0x85, 0x00, 0x00, 0x00, 0x00, 0x01}, LengthTooLong},
		{"indefinite length", []byte{0x24, 0x80, 0x00, 0x00}, LengthTooLong},
		{"truncated value", []byte{0x04, 0x05, 0x01, 0x02}, TruncatedInput},
		{"truncated child value", []byte{0x30, 0x04, 0x04, 0x05, 0x01, 0x02}, TruncatedInput},
		{"dangling byte in constructed", []byte{0x30, 0x04, 0x04, 0x01, 0xaa, 0x00}, CorruptBuffer},
		{"malformed child tag", []byte{0x30, 0x03, 0x1f, 0x80, 0x01}, MalformedTag},
		{"deep truncation", []byte{0x30, 0x06, 0x30, 0x04, 0x30, 0x02, 0x04, 0x09}, TruncatedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, rest, err := Parse(tt.in)
			require.Error(t, err)
			require.Equal(t, tt.code, CodeOf(err), err)
			require.Nil(t, n)
			require.Nil(t, rest)

			n, err = ParseAll(append([]byte{0x01, 0x00}, tt.in...))
			if len(tt.in) == 0 {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tt.code, CodeOf(err), err)
			require.Nil(t, n)
		})
	}
}

func TestParseMaxValueLength(t *testing.T) {
	buf := append([]byte{0x04, 0x0b}, make([]byte, 11)...)

	_, _, err := Parse(buf, WithMaxValueLength(10))
	require.Equal(t, InvalidValueLength, CodeOf(err))

	n, _, err := Parse(buf, WithMaxValueLength(11))
	require.NoError(t, err)
	require.Equal(t, 11, n.Length())

	// the parser's limit sticks with the parsed nodes
	require.Equal(t, InvalidValueLength, CodeOf(n.SetValue(make([]byte, 12))))

	// constructed values are not limited, only the payloads of their children
	nested := append([]byte{0x30, 0x0d}, buf...)
	n, _, err = Parse(nested, WithMaxValueLength(11))
	require.NoError(t, err)
	require.Equal(t, 11, n.Child().Length())
}

func TestParseMaxDepth(t *testing.T) {
	buf := []byte{0x20, 0x04, 0x20, 0x02, 0x20, 0x00}

	_, _, err := Parse(buf, WithMaxDepth(1))
	require.Equal(t, CorruptBuffer, CodeOf(err))

	n, _, err := Parse(buf, WithMaxDepth(2))
	require.NoError(t, err)
	require.Equal(t, 3, n.Count())
	require.Equal(t, 2, n.Child().Child().Depth())

	_, _, err = Parse(buf, WithMaxDepth(0))
	require.Equal(t, InvalidState, CodeOf(err))
}
