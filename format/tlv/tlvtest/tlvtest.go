// Package tlvtest provides helpers for testing code that works with TLV trees.
package tlvtest

import (
	"math/rand"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/tlv-go/format/tlv"
	"github.com/eluv-io/tlv-go/util/byteutil"
)

// Snapshot is a plain representation of a node and its child subtree, suitable for comparisons and dumps.
type Snapshot struct {
	Tag      int
	Class    string
	Form     string
	Depth    int
	Value    []byte
	Children []*Snapshot
}

// Snap returns the snapshots of the given node and all nodes of its sibling chain.
func Snap(n *tlv.Node) []*Snapshot {
	var res []*Snapshot
	for s := n; s != nil; s = s.Sibling() {
		snap := &Snapshot{
			Tag:   s.Tag(),
			Class: s.Class().String(),
			Form:  s.Form().String(),
			Depth: s.Depth(),
		}
		if len(s.Value()) > 0 {
			snap.Value = s.Value()
		}
		snap.Children = Snap(s.Child())
		res = append(res, snap)
	}
	return res
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Diff compares the trees rooted at want and got (sibling chains included) and returns their difference in unified
// diff format, or an empty string if the trees are equal.
func Diff(want, got *tlv.Node) string {
	a := Snap(want)
	b := Snap(got)
	if reflect.DeepEqual(a, b) {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(spewConfig.Sdump(a)),
		B:        difflib.SplitLines(spewConfig.Sdump(b)),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	return diff
}

// RequireEqualTree fails the test if the trees rooted at want and got differ in tags, classes, forms, depths, values
// or shape.
func RequireEqualTree(t require.TestingT, want, got *tlv.Node, msgAndArgs ...interface{}) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	diff := Diff(want, got)
	if diff != "" {
		require.Fail(t, "trees differ:\n"+diff, msgAndArgs...)
	}
}

var classes = []tlv.Class{
	tlv.ClassUniversal,
	tlv.ClassApplication,
	tlv.ClassContextSpecific,
	tlv.ClassPrivate,
}

// RandomTree creates a random, valid tree with a constructed root. Nodes have at most maxChildren children and the
// tree is at most maxDepth levels deep. Tags are a mix of short and long form tags, values have up to maxValue bytes.
func RandomTree(t require.TestingT, maxDepth, maxChildren, maxValue int) *tlv.Node {
	root, err := tlv.NewConstructed(randomTag(), randomClass())
	require.NoError(t, err)

	type item struct {
		n     *tlv.Node
		depth int
	}
	stack := []item{{root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := rand.Intn(maxChildren + 1); i > 0; i-- {
			var child *tlv.Node
			if it.depth < maxDepth && rand.Intn(3) == 0 {
				child, err = tlv.NewConstructed(randomTag(), randomClass())
				require.NoError(t, err)
				stack = append(stack, item{child, it.depth + 1})
			} else {
				child, err = tlv.NewPrimitive(randomTag(), randomClass(), byteutil.RandomBytes(rand.Intn(maxValue+1)))
				require.NoError(t, err)
			}
			require.NoError(t, it.n.AppendChild(child))
		}
	}
	return root
}

func randomTag() int {
	switch rand.Intn(3) {
	case 0:
		return rand.Intn(31)
	case 1:
		return 31 + rand.Intn(1<<14)
	default:
		return rand.Intn(tlv.MaxTag + 1)
	}
}

func randomClass() tlv.Class {
	return classes[rand.Intn(len(classes))]
}
