package tlv

import (
	"github.com/eluv-io/errors-go"
	"github.com/gammazero/deque"
)

// Encode returns the encoding of the node including its child subtree. The node's siblings are not encoded - use
// EncodeAll for that.
//
// The lengths of constructed nodes with children are recomputed bottom-up as a side effect. Encoding fails with
// InvalidState if any node of the subtree is not valid, e.g. because its declared length does not match its value.
func Encode(n *Node) ([]byte, error) {
	return AppendEncoded(nil, n)
}

// AppendEncoded appends the encoding of the node including its child subtree to dst and returns the extended slice.
func AppendEncoded(dst []byte, n *Node) ([]byte, error) {
	e := errors.TemplateNoTrace("Encode", errors.K.Invalid)
	size, err := EncodedLen(n)
	if err != nil {
		return dst, e(err)
	}

	if cap(dst)-len(dst) < size {
		grown := make([]byte, len(dst), len(dst)+size)
		copy(grown, dst)
		dst = grown
	}
	start := len(dst)
	dst, err = emit(dst, n)
	if err != nil {
		return dst[:start], e(err)
	}
	if log.IsTrace() {
		log.Trace("encoded TLV", "node", n, "size", len(dst)-start)
	}
	return dst, nil
}

// EncodeAll returns the concatenated encodings of the node and all nodes of its sibling chain.
func EncodeAll(n *Node) ([]byte, error) {
	var res []byte
	var err error
	for s := n; s != nil; s = s.sibling {
		res, err = AppendEncoded(res, s)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// EncodedLen returns the size of the encoding of the node including its child subtree. Like Encode, it recomputes the
// lengths of constructed nodes with children.
func EncodedLen(n *Node) (int, error) {
	e := errors.TemplateNoTrace("EncodedLen", errors.K.Invalid)
	if n == nil {
		return 0, e(InvalidState, "reason", "node is nil")
	}
	err := computeLengths(n)
	if err != nil {
		return 0, e(err)
	}
	return totalLen(n), nil
}

// totalLen returns the size of the complete record of a node with valid length.
func totalLen(n *Node) int {
	return TagHeaderLen(n.tag) + LengthLen(n.length) + n.length
}

// lengthFrame is the state of a constructed node whose length is being computed from its children.
type lengthFrame struct {
	node *Node
	next *Node // the next child to account for
	sum  int
}

// computeLengths validates all nodes of the subtree of n and sets the length of constructed nodes with children to
// the sum of the record sizes of their children, bottom-up.
func computeLengths(n *Node) error {
	if err := n.validate(); err != nil {
		return err
	}
	if n.child == nil {
		return nil
	}

	var stack deque.Deque
	stack.PushBack(&lengthFrame{node: n, next: n.child})
	for stack.Len() > 0 {
		f := stack.Back().(*lengthFrame)
		if f.next != nil {
			c := f.next
			f.next = c.sibling
			if err := c.validate(); err != nil {
				return err
			}
			if c.child != nil {
				stack.PushBack(&lengthFrame{node: c, next: c.child})
				continue
			}
			f.sum += totalLen(c)
			continue
		}

		if int64(f.sum) > MaxLength {
			return errors.NoTrace("computeLengths", errors.K.Invalid, LengthTooLong,
				"tag", f.node.tag,
				"length", f.sum)
		}
		f.node.length = f.sum
		stack.PopBack()
		if stack.Len() > 0 {
			stack.Back().(*lengthFrame).sum += totalLen(f.node)
		}
	}
	return nil
}

// emit appends the records of n and its child subtree in pre-order. Lengths must have been computed before.
func emit(dst []byte, n *Node) ([]byte, error) {
	dst, err := emitNode(dst, n)
	if err != nil || n.child == nil {
		return dst, err
	}

	var stack deque.Deque
	stack.PushBack(n.child)
	for stack.Len() > 0 {
		x := stack.PopBack().(*Node)
		if x.sibling != nil {
			stack.PushBack(x.sibling)
		}
		dst, err = emitNode(dst, x)
		if err != nil {
			return dst, err
		}
		if x.child != nil {
			stack.PushBack(x.child)
		}
	}
	return dst, nil
}

// emitNode appends tag header and length of the node, followed by its value if it has no children.
func emitNode(dst []byte, n *Node) ([]byte, error) {
	dst, err := AppendTagHeader(dst, n.class, n.form, n.tag)
	if err != nil {
		return dst, err
	}
	dst, err = AppendLength(dst, n.length)
	if err != nil {
		return dst, err
	}
	if n.child == nil {
		dst = append(dst, n.value...)
	}
	return dst, nil
}
