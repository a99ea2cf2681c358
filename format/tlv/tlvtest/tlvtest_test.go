package tlvtest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/tlv-go/format/tlv"
)

func TestDiff(t *testing.T) {
	a := RandomTree(t, 3, 3, 10)
	require.Empty(t, Diff(a, a))
	require.Empty(t, Diff(nil, nil))

	b, err := tlv.NewConstructed(a.Tag(), a.Class())
	require.NoError(t, err)
	leaf, err := tlv.NewPrimitive(77, tlv.ClassPrivate, []byte("x"))
	require.NoError(t, err)
	require.NoError(t, b.AppendChild(leaf))

	diff := Diff(a, b)
	require.NotEmpty(t, diff)
	require.True(t, strings.HasPrefix(diff, "--- want\n+++ got\n"), diff)
}

func TestRandomTree(t *testing.T) {
	for i := 0; i < 20; i++ {
		tree := RandomTree(t, 4, 4, 50)
		require.True(t, tree.IsConstructed())
		tree.Walk(func(n *tlv.Node) bool {
			require.True(t, n.Valid(), n)
			require.LessOrEqual(t, n.Depth(), 4)
			require.LessOrEqual(t, len(n.Children()), 4)
			return true
		})
	}
}
