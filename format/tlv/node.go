package tlv

import (
	"fmt"

	"github.com/eluv-io/errors-go"
)

// Node is a single TLV record. A constructed node owns the chain of its children, and every node owns the chain of
// its following siblings. Nodes are created with NewConstructed, NewPrimitive or by parsing.
//
// The value of a primitive node is its payload. A constructed node has no value of its own once it has children -
// its length is recomputed from the children when it is encoded. Before children are attached (or when created by
// hand with SetValue) a constructed node may hold the raw concatenated encoding of its children.
//
// The depth of a node is its level in the tree and only used for display. It is maintained by all structural
// mutations: children are one level below their parent, siblings share the level of their predecessor.
type Node struct {
	tag     int
	class   Class
	form    Form
	length  int
	value   []byte
	depth   int
	child   *Node
	sibling *Node

	owned    bool // true if linked as child or sibling of another node
	maxValue int  // maximum value length, from Config.MaxValueLength
}

// NewConstructed creates a new constructed node without children.
func NewConstructed(tag int, class Class, opts ...Option) (*Node, error) {
	e := errors.Template("NewConstructed", errors.K.Invalid)
	n, err := newNode(tag, class, Constructed, nil, opts)
	if err != nil {
		return nil, e(err)
	}
	return n, nil
}

// NewPrimitive creates a new primitive node with the given payload. The node takes ownership of value.
func NewPrimitive(tag int, class Class, value []byte, opts ...Option) (*Node, error) {
	e := errors.Template("NewPrimitive", errors.K.Invalid)
	n, err := newNode(tag, class, Primitive, value, opts)
	if err != nil {
		return nil, e(err)
	}
	return n, nil
}

func newNode(tag int, class Class, form Form, value []byte, opts []Option) (*Node, error) {
	cfg, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if tag < 0 || tag > MaxTag {
		return nil, errors.NoTrace("newNode", errors.K.Invalid, InvalidTag, "tag", tag)
	}
	if !class.Valid() {
		return nil, errors.NoTrace("newNode", errors.K.Invalid, InvalidState, "reason", "invalid class", "class", class)
	}
	if len(value) > cfg.MaxValueLength {
		return nil, errors.NoTrace("newNode", errors.K.Invalid, InvalidValueLength,
			"length", len(value),
			"max_length", cfg.MaxValueLength)
	}
	if len(value) == 0 {
		value = nil
	}
	return &Node{
		tag:      tag,
		class:    class,
		form:     form,
		length:   len(value),
		value:    value,
		maxValue: cfg.MaxValueLength,
	}, nil
}

// Tag returns the tag number of the node.
func (n *Node) Tag() int { return n.tag }

// Class returns the class of the node.
func (n *Node) Class() Class { return n.class }

// Form returns the form of the node.
func (n *Node) Form() Form { return n.form }

// IsConstructed returns true if the node is constructed.
func (n *Node) IsConstructed() bool { return n.form == Constructed }

// Length returns the length of the node's value. For constructed nodes with children, the length is only valid after
// the node has been encoded or measured with EncodedLen - it is 0 right after parsing.
func (n *Node) Length() int { return n.length }

// Value returns the payload of the node. The returned slice is not copied.
func (n *Node) Value() []byte { return n.value }

// Depth returns the level of the node in its tree.
func (n *Node) Depth() int { return n.depth }

// Child returns the first child of the node or nil.
func (n *Node) Child() *Node { return n.child }

// Sibling returns the next sibling of the node or nil.
func (n *Node) Sibling() *Node { return n.sibling }

// SetValue sets the payload of the node and updates its length. Constructed nodes accept a raw value only as long as
// they have no children.
func (n *Node) SetValue(value []byte) error {
	e := errors.Template("Node.SetValue", errors.K.Invalid, "tag", n.tag)
	if n.isReset() {
		return e(InvalidState, "reason", "node has been reset")
	}
	if n.child != nil {
		return e(InvalidState, "reason", "value of constructed node is owned by its children")
	}
	if len(value) > n.maxValue {
		return e(InvalidValueLength, "length", len(value), "max_length", n.maxValue)
	}
	if len(value) == 0 {
		value = nil
	}
	n.value = value
	n.length = len(value)
	return nil
}

// SetTag changes the tag number of the node.
func (n *Node) SetTag(tag int) error {
	if n.isReset() {
		return errors.E("Node.SetTag", errors.K.Invalid, InvalidState, "reason", "node has been reset")
	}
	if tag < 0 || tag > MaxTag {
		return errors.E("Node.SetTag", errors.K.Invalid, InvalidTag, "tag", tag)
	}
	n.tag = tag
	return nil
}

// SetClass changes the class of the node.
func (n *Node) SetClass(class Class) error {
	if n.isReset() {
		return errors.E("Node.SetClass", errors.K.Invalid, InvalidState, "reason", "node has been reset")
	}
	if !class.Valid() {
		return errors.E("Node.SetClass", errors.K.Invalid, InvalidState, "reason", "invalid class", "class", class)
	}
	n.class = class
	return nil
}

// SetLength overrides the declared length of the node. A length that does not match the node's value makes the node
// invalid - it is rejected when encoding. The length of constructed nodes with children is recomputed on encoding.
func (n *Node) SetLength(length int) error {
	if n.isReset() {
		return errors.E("Node.SetLength", errors.K.Invalid, InvalidState, "reason", "node has been reset")
	}
	if length < 0 {
		return errors.E("Node.SetLength", errors.K.Invalid, InvalidValueLength, "length", length)
	}
	n.length = length
	return nil
}

// isReset returns true if the node has been cleared with Reset. A reset node stays unusable.
func (n *Node) isReset() bool {
	return n.class == ClassInvalid
}

// Valid returns true if the node is in a consistent, encodable state. It does not check descendants or siblings.
func (n *Node) Valid() bool {
	return n.validate() == nil
}

func (n *Node) validate() error {
	e := errors.TemplateNoTrace("Node.validate", errors.K.Invalid, InvalidState, "tag", n.tag)
	switch {
	case n.tag < 0 || n.tag > MaxTag:
		return e("reason", "invalid tag")
	case !n.class.Valid():
		return e("reason", "invalid class", "class", n.class)
	case n.form != Primitive && n.form != Constructed:
		return e("reason", "invalid form", "form", n.form)
	case n.length < 0:
		return e("reason", "negative length", "length", n.length)
	case n.form == Primitive && n.child != nil:
		return e("reason", "primitive node with children")
	case n.child == nil && n.length != len(n.value):
		return e("reason", "length mismatch", "length", n.length, "value_length", len(n.value))
	}
	return nil
}

// String returns a short description of the node, without its children or siblings.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tag=%d class=%s form=%s length=%d depth=%d", n.tag, n.class, n.form, n.length, n.depth)
}
