// Package tlvdump renders TLV trees in a human readable form for logs, debugging and tests.
//
// Each node is printed on its own line, indented by four spaces per level:
//
//	|cdo+1|-[]
//	    |pdo+2|-[ 0x61 0x62 0x63 ]
//	    |cdo+3:context-specific|-[]
//	        |pdo+35|-[ 0x61 0x62 0x63 0x64 ]
package tlvdump

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
	"github.com/mattn/go-runewidth"

	"github.com/eluv-io/tlv-go/format/tlv"
	"github.com/eluv-io/tlv-go/format/tlv/tlvtext"
)

const (
	indent          = "    "
	defaultMaxWidth = 100
)

type printer struct {
	text     *tlvtext.Encoding
	maxWidth int
}

// Option configures the printer.
type Option func(p *printer)

// OptText renders primitive payloads as quoted text in the given encoding. Payloads that cannot be decoded are
// still rendered as bytes.
func OptText(enc tlvtext.Encoding) Option {
	return func(p *printer) {
		p.text = &enc
	}
}

// OptMaxWidth limits the rendering of a payload to the given display width. Zero or a negative value disables
// truncation.
func OptMaxWidth(width int) Option {
	return func(p *printer) {
		p.maxWidth = width
	}
}

// Tree returns the rendering of the given node, its subtree and its sibling chain.
func Tree(n *tlv.Node, opts ...Option) string {
	sb := strings.Builder{}
	_ = Fprint(&sb, n, opts...)
	return sb.String()
}

// Fprint writes the rendering of the given node, its subtree and its sibling chain to w.
func Fprint(w io.Writer, n *tlv.Node, opts ...Option) (err error) {
	if n == nil {
		return nil
	}
	p := &printer{maxWidth: defaultMaxWidth}
	for _, opt := range opts {
		opt(p)
	}

	base := n.Depth()
	n.Walk(func(node *tlv.Node) bool {
		level := node.Depth() - base
		if level < 0 {
			level = 0
		}
		_, err = io.WriteString(w, strings.Repeat(indent, level)+p.line(node)+"\n")
		return err == nil
	})
	if err != nil {
		return errors.E("tlvdump.Fprint", errors.K.IO, err)
	}
	return nil
}

func (p *printer) line(n *tlv.Node) string {
	sb := strings.Builder{}
	sb.WriteString("|")
	if n.IsConstructed() {
		sb.WriteString("cdo+")
	} else {
		sb.WriteString("pdo+")
	}
	sb.WriteString(strconv.Itoa(n.Tag()))
	if n.Class() != tlv.ClassUniversal {
		sb.WriteString(":")
		sb.WriteString(n.Class().String())
	}
	sb.WriteString("|-[")
	if n.IsConstructed() && n.Child() != nil || len(n.Value()) == 0 {
		sb.WriteString("]")
		return sb.String()
	}
	sb.WriteString(" ")
	sb.WriteString(p.payload(n.Value()))
	sb.WriteString(" ]")
	return sb.String()
}

func (p *printer) payload(value []byte) string {
	var desc string
	if p.text != nil {
		if s, err := tlvtext.Decode(*p.text, value); err == nil {
			desc = strconv.Quote(s)
		}
	}
	if desc == "" {
		parts := make([]string, len(value))
		for i, b := range value {
			parts[i] = fmt.Sprintf("0x%02X", b)
		}
		desc = strings.Join(parts, " ")
	}
	if p.maxWidth > 0 {
		desc = runewidth.Truncate(desc, p.maxWidth, "...")
	}
	return desc
}

// Hex returns a hex dump of the given bytes, typically the encoded form of a tree, in the format of 'hexdump -C'.
func Hex(b []byte) string {
	return hex.Dump(b)
}
