package tlv

import (
	"github.com/eluv-io/errors-go"
	"github.com/gammazero/deque"
)

// Parse decodes the first TLV record in buf, expanding constructed values into child trees. It returns the node and
// the unconsumed bytes following the record, so that consecutive top-level records can be parsed by calling Parse
// again on the remainder.
//
// Parsing is all or nothing: on error, the returned node is nil. Values of primitive nodes are copied from buf.
func Parse(buf []byte, opts ...Option) (*Node, []byte, error) {
	e := errors.TemplateNoTrace("Parse", errors.K.Invalid)
	cfg, err := resolve(opts)
	if err != nil {
		return nil, nil, e(err)
	}
	n, rest, err := parse(buf, cfg)
	if err != nil {
		if log.IsDebug() {
			log.Debug("rejected TLV input", "len", len(buf), "error", err)
		}
		return nil, nil, e(err)
	}
	return n, rest, nil
}

// ParseAt works like Parse, but parses the window of length bytes of buf starting at offset. The returned remainder
// is a sub-slice of that window.
func ParseAt(buf []byte, offset, length int, opts ...Option) (*Node, []byte, error) {
	if offset < 0 || length < 0 || offset > len(buf) || length > len(buf)-offset {
		return nil, nil, errors.NoTrace("ParseAt", errors.K.Invalid, CorruptBuffer,
			"reason", "window out of range",
			"offset", offset,
			"length", length,
			"buffer_length", len(buf))
	}
	return Parse(buf[offset:offset+length], opts...)
}

// ParseAll decodes all consecutive top-level records in buf and links them as a sibling chain. It returns the first
// record, or nil if buf is empty.
func ParseAll(buf []byte, opts ...Option) (*Node, error) {
	e := errors.TemplateNoTrace("ParseAll", errors.K.Invalid)
	cfg, err := resolve(opts)
	if err != nil {
		return nil, e(err)
	}

	var first, last *Node
	for offset := 0; len(buf) > 0; {
		n, rest, err := parse(buf, cfg)
		if err != nil {
			return nil, e(err, "offset", offset)
		}
		if first == nil {
			first = n
		} else {
			last.sibling = n
			n.owned = true
		}
		last = n
		offset += len(buf) - len(rest)
		buf = rest
	}
	return first, nil
}

// parseFrame is the state of a constructed node whose value is being expanded.
type parseFrame struct {
	parent *Node
	data   []byte // the part of the parent's value not parsed yet
	offset int    // offset of data in the input
	last   *Node  // the child parsed last
}

func parse(buf []byte, cfg Config) (*Node, []byte, error) {
	root, n, err := parseHeader(buf, 0, cfg)
	if err != nil {
		return nil, nil, err
	}
	rest := buf[n:]

	if root.form == Constructed && len(root.value) > 0 {
		err = expand(root, n-len(root.value), cfg)
		if err != nil {
			return nil, nil, err
		}
	}
	if log.IsTrace() {
		log.Trace("parsed TLV", "node", root, "consumed", n, "remaining", len(rest))
	}
	return root, rest, nil
}

// expand parses the value of the given constructed node as sequence of sibling records and links them as its child
// chain. Constructed children are expanded in turn, depth first.
func expand(root *Node, offset int, cfg Config) error {
	var stack deque.Deque
	stack.PushBack(&parseFrame{parent: root, data: root.value, offset: offset})

	for stack.Len() > 0 {
		f := stack.Back().(*parseFrame)
		if len(f.data) == 0 {
			// ownership of the value is transferred to the children
			f.parent.value = nil
			f.parent.length = 0
			stack.PopBack()
			continue
		}

		child, n, err := parseHeader(f.data, f.offset, cfg)
		if err != nil {
			return err
		}
		child.depth = f.parent.depth + 1
		child.owned = true
		if f.last == nil {
			f.parent.child = child
		} else {
			f.last.sibling = child
		}
		f.last = child
		f.data = f.data[n:]
		f.offset += n

		if child.form == Constructed && len(child.value) > 0 {
			if child.depth-root.depth >= cfg.MaxDepth {
				return errors.NoTrace("expand", errors.K.Invalid, CorruptBuffer,
					"reason", "nesting too deep",
					"max_depth", cfg.MaxDepth,
					"offset", f.offset-n)
			}
			stack.PushBack(&parseFrame{parent: child, data: child.value, offset: f.offset - len(child.value)})
		}
	}
	return nil
}

// parseHeader decodes tag header and length of the record at the start of buf and captures its value. Values of
// constructed records are sub-slices of buf, values of primitive records are copies. offset is the position of buf in
// the input and only used for error reporting. Returns the node and the number of bytes consumed.
func parseHeader(buf []byte, offset int, cfg Config) (*Node, int, error) {
	e := errors.TemplateNoTrace("parseHeader", errors.K.Invalid, "offset", offset)
	if len(buf) < minHeaderLength {
		return nil, 0, e(CorruptBuffer, "reason", "not enough bytes for tag and length", "available", len(buf))
	}

	class, form, tag, hl, err := DecodeTagHeader(buf)
	if err != nil {
		return nil, 0, e(err)
	}
	length, ll, err := DecodeLength(buf[hl:])
	if err != nil {
		return nil, 0, e(err, "tag", tag)
	}

	start := hl + ll
	if len(buf)-start < length {
		return nil, 0, e(TruncatedInput,
			"reason", "buffer ends within value",
			"tag", tag,
			"length", length,
			"available", len(buf)-start)
	}
	if form == Primitive && length > cfg.MaxValueLength {
		return nil, 0, e(InvalidValueLength, "tag", tag, "length", length, "max_length", cfg.MaxValueLength)
	}

	n := &Node{
		tag:      tag,
		class:    class,
		form:     form,
		length:   length,
		maxValue: cfg.MaxValueLength,
	}
	if length > 0 {
		if form == Primitive {
			n.value = make([]byte, length)
			copy(n.value, buf[start:start+length])
		} else {
			n.value = buf[start : start+length]
		}
	}
	return n, start + length, nil
}
