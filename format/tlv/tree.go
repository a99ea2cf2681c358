package tlv

import (
	"github.com/eluv-io/errors-go"
	"github.com/gammazero/deque"
)

// All traversals below use an explicit stack, never recursion. The traversal order is always: node, child subtree,
// sibling chain.

// SetChild replaces the entire child chain of the node with the given child (and its siblings). The previous child
// chain is reset. The depth of the new child chain is set to the node's depth + 1.
func (n *Node) SetChild(child *Node) error {
	e := errors.Template("Node.SetChild", errors.K.Invalid, "tag", n.tag)
	if n.form != Constructed {
		return e(NotConstructed)
	}
	if err := n.checkAttach(child); err != nil {
		return e(err)
	}

	old := n.child
	n.child = child
	n.value = nil
	n.length = 0
	child.owned = true
	setDepth(child, n.depth+1)
	old.Reset()

	if log.IsTrace() {
		log.Trace("child set", "parent", n, "child", child)
	}
	return nil
}

// AppendChild attaches the given child at the end of the node's child chain. If the node has no children yet, it is
// the same as SetChild.
func (n *Node) AppendChild(child *Node) error {
	if n.child == nil {
		return n.SetChild(child)
	}

	e := errors.Template("Node.AppendChild", errors.K.Invalid, "tag", n.tag)
	if n.form != Constructed {
		return e(NotConstructed)
	}
	if err := n.checkAttach(child); err != nil {
		return e(err)
	}

	last := n.child.last()
	last.sibling = child
	child.owned = true
	setDepth(child, last.depth)
	return nil
}

// SetSibling replaces the sibling chain following the node with the given sibling (and its siblings). The previous
// sibling chain is reset. Siblings share the depth of the node.
func (n *Node) SetSibling(sibling *Node) error {
	e := errors.Template("Node.SetSibling", errors.K.Invalid, "tag", n.tag)
	if err := n.checkAttach(sibling); err != nil {
		return e(err)
	}

	old := n.sibling
	n.sibling = sibling
	sibling.owned = true
	setDepth(sibling, n.depth)
	old.Reset()
	return nil
}

// AppendSibling attaches the given sibling at the end of the node's sibling chain.
func (n *Node) AppendSibling(sibling *Node) error {
	e := errors.Template("Node.AppendSibling", errors.K.Invalid, "tag", n.tag)
	if err := n.checkAttach(sibling); err != nil {
		return e(err)
	}

	last := n.last()
	last.sibling = sibling
	sibling.owned = true
	setDepth(sibling, last.depth)
	return nil
}

// checkAttach verifies that the given node may be linked into the tree of n: it must not be attached elsewhere
// already, and n must not be reachable from it.
func (n *Node) checkAttach(other *Node) error {
	e := errors.TemplateNoTrace("Node.checkAttach", errors.K.Invalid, InvalidState)
	switch {
	case n.isReset():
		return e("reason", "target node has been reset")
	case other == nil:
		return e("reason", "node is nil")
	case other.isReset():
		return e("reason", "node has been reset", "node", other)
	case other.owned:
		return e("reason", "node is already attached", "node", other)
	}

	cycle := false
	other.Walk(func(x *Node) bool {
		cycle = x == n
		return !cycle
	})
	if cycle {
		return e("reason", "attaching node would create a cycle", "node", other)
	}
	return nil
}

// last returns the last node of the sibling chain starting at n.
func (n *Node) last() *Node {
	last := n
	for last.sibling != nil {
		last = last.sibling
	}
	return last
}

type depthItem struct {
	n     *Node
	depth int
}

// setDepth sets the depth of n, propagating it to n's child subtree and sibling chain.
func setDepth(n *Node, depth int) {
	var stack deque.Deque
	stack.PushBack(depthItem{n, depth})
	for stack.Len() > 0 {
		it := stack.PopBack().(depthItem)
		it.n.depth = it.depth
		if it.n.sibling != nil {
			stack.PushBack(depthItem{it.n.sibling, it.depth})
		}
		if it.n.child != nil {
			stack.PushBack(depthItem{it.n.child, it.depth + 1})
		}
	}
}

// Walk calls fn for the node, all nodes of its child subtree and all nodes of its sibling chain, in depth-first
// pre-order. The walk stops as soon as fn returns false.
func (n *Node) Walk(fn func(n *Node) bool) {
	if n == nil {
		return
	}
	var stack deque.Deque
	stack.PushBack(n)
	for stack.Len() > 0 {
		x := stack.PopBack().(*Node)
		if !fn(x) {
			return
		}
		if x.sibling != nil {
			stack.PushBack(x.sibling)
		}
		if x.child != nil {
			stack.PushBack(x.child)
		}
	}
}

// FindTag searches the node, its child subtree and then its sibling chain for a node with the given tag and returns
// the first match in depth-first pre-order. Returns nil if there is no such node.
func (n *Node) FindTag(tag int) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if x.tag == tag {
			found = x
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes reachable from n through child and sibling links, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Children returns the child chain of the node as slice.
func (n *Node) Children() []*Node {
	var res []*Node
	for c := n.child; c != nil; c = c.sibling {
		res = append(res, c)
	}
	return res
}

// Siblings returns the node and its sibling chain as slice.
func (n *Node) Siblings() []*Node {
	var res []*Node
	for s := n; s != nil; s = s.sibling {
		res = append(res, s)
	}
	return res
}

// Reset clears the node and every node reachable through its child and sibling links. All fields return to their
// sentinel state: tag and length -1, invalid class, primitive form, no value, no links, depth 0. A reset node cannot
// be modified, encoded or attached. Nodes attached before the reset stay marked as attached.
func (n *Node) Reset() {
	if n == nil {
		return
	}
	var stack deque.Deque
	stack.PushBack(n)
	for stack.Len() > 0 {
		x := stack.PopBack().(*Node)
		if x.sibling != nil {
			stack.PushBack(x.sibling)
		}
		if x.child != nil {
			stack.PushBack(x.child)
		}
		*x = Node{
			tag:      -1,
			length:   -1,
			class:    ClassInvalid,
			form:     Primitive,
			owned:    x.owned,
			maxValue: x.maxValue,
		}
	}
}
