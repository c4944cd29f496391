package sgf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates (;DD[aa];B[ab](;W[bb];C[x])(;W[cc])).
func buildTree(t *testing.T) (*Collection, TreeID, []NodeID) {
	t.Helper()
	c := NewCollection("test")
	top := c.AddTree(NoTree)
	c.Tree(top).Flavor = Generic()

	n0 := c.AddNode(top)
	require.NoError(t, c.SetProperty(n0, Property{ID: "DD", Value: List{Items: []Value{GenericPoint{}}, EList: true}}))
	n1 := c.AddNode(top)
	require.NoError(t, c.SetProperty(n1, Property{ID: "B", Value: GenericMove("ab")}))

	v1 := c.AddTree(top)
	n2 := c.AddNode(v1)
	require.NoError(t, c.SetProperty(n2, Property{ID: "W", Value: GenericMove("bb")}))
	n3 := c.AddNode(v1)
	require.NoError(t, c.SetProperty(n3, Property{ID: "C", Value: Text("x")}))

	v2 := c.AddTree(top)
	n4 := c.AddNode(v2)
	require.NoError(t, c.SetProperty(n4, Property{ID: "W", Value: GenericMove("cc")}))

	return c, top, []NodeID{n0, n1, n2, n3, n4}
}

func TestCollection_Shape(t *testing.T) {
	c, top, n := buildTree(t)
	assert.Equal(t, []TreeID{top}, c.Trees)
	assert.Equal(t, 3, c.NumTrees())
	assert.Equal(t, 5, c.NumNodes())

	assert.Equal(t, NoNode, c.Parent(n[0]))
	assert.Equal(t, n[0], c.Parent(n[1]))
	assert.Equal(t, n[1], c.Parent(n[2]))
	assert.Equal(t, n[2], c.Parent(n[3]))
	assert.Equal(t, n[1], c.Parent(n[4]))

	assert.Equal(t, top, c.Root(c.Node(n[4]).Tree))
	root, ok := c.RootNode(c.Node(n[3]).Tree)
	require.True(t, ok)
	assert.Equal(t, n[0], root.ID)
}

func TestCollection_DuplicateProperty(t *testing.T) {
	c, _, n := buildTree(t)
	err := c.SetProperty(n[1], Property{ID: "B", Value: GenericMove("cd")})
	assert.EqualError(t, err, "duplicate property B")
}

// TestCollection_LookupInherited checks that DD is visible below its node
// while non inherited ids are not.
func TestCollection_LookupInherited(t *testing.T) {
	c, _, n := buildTree(t)
	for _, id := range n {
		_, ok := c.Lookup(id, "DD")
		assert.True(t, ok)
	}
	_, ok := c.Lookup(n[3], "B")
	assert.False(t, ok)
	v, ok := c.Lookup(n[3], "C")
	require.True(t, ok)
	assert.Equal(t, Text("x"), v)
}

func TestCollection_MainLineAndWalk(t *testing.T) {
	c, top, n := buildTree(t)
	assert.Equal(t, []NodeID{n[0], n[1], n[2], n[3]}, c.MainLine(top))

	var seen []NodeID
	require.NoError(t, c.Walk(top, func(id NodeID) error {
		seen = append(seen, id)
		return nil
	}))
	assert.Equal(t, n, seen)
}

func TestCollection_Rollback(t *testing.T) {
	c, top, _ := buildTree(t)
	m := c.Mark()
	second := c.AddTree(NoTree)
	c.AddNode(second)
	c.AddTree(second)
	require.Len(t, c.Trees, 2)

	c.Rollback(m)
	assert.Equal(t, []TreeID{top}, c.Trees)
	assert.Equal(t, 3, c.NumTrees())
	assert.Equal(t, 5, c.NumNodes())
}
