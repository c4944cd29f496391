package sgf

import "fmt"

// TreeID addresses a GameTree inside its Collection.
type TreeID int

// NodeID addresses a Node inside its Collection.
type NodeID int

const (
	NoTree TreeID = -1
	NoNode NodeID = -1
)

// Pos is the source location of a property, zero for built trees.
type Pos struct {
	Offset int
	Line   int
	Column int
}

type Property struct {
	ID    string
	Value Value
	Pos   Pos
}

// Node is one SGF node. Properties keep their insertion order.
type Node struct {
	ID         NodeID
	Tree       TreeID
	Properties []Property
}

func (n *Node) Get(id string) (Value, bool) {
	for i := range n.Properties {
		if n.Properties[i].ID == id {
			return n.Properties[i].Value, true
		}
	}
	return nil, false
}

func (n *Node) Has(id string) bool {
	_, ok := n.Get(id)
	return ok
}

func (n *Node) Property(id string) (*Property, bool) {
	for i := range n.Properties {
		if n.Properties[i].ID == id {
			return &n.Properties[i], true
		}
	}
	return nil, false
}

// GameTree is a sequence of nodes followed by its variations.
type GameTree struct {
	ID       TreeID
	Parent   TreeID
	Nodes    []NodeID
	Children []TreeID
	Flavor   *Flavor // set by the cooker on top-level trees
}

// Collection owns every tree and node of one SGF document. Trees and nodes
// live in two arenas; parent links are ids, never pointers. Pointers
// returned by Tree and Node stay valid until the next Add call.
type Collection struct {
	Name  string
	Trees []TreeID // top-level trees in document order

	trees []GameTree
	nodes []Node
}

func NewCollection(name string) *Collection {
	return &Collection{Name: name}
}

// AddTree appends a tree under parent, or a top-level tree for NoTree.
func (c *Collection) AddTree(parent TreeID) TreeID {
	id := TreeID(len(c.trees))
	c.trees = append(c.trees, GameTree{ID: id, Parent: parent})
	if parent == NoTree {
		c.Trees = append(c.Trees, id)
	} else {
		c.trees[parent].Children = append(c.trees[parent].Children, id)
	}
	return id
}

// AddNode appends a node to the sequence of tree.
func (c *Collection) AddNode(tree TreeID) NodeID {
	id := NodeID(len(c.nodes))
	c.nodes = append(c.nodes, Node{ID: id, Tree: tree})
	c.trees[tree].Nodes = append(c.trees[tree].Nodes, id)
	return id
}

// SetProperty appends p to node. Property ids are unique within a node.
func (c *Collection) SetProperty(node NodeID, p Property) error {
	n := &c.nodes[node]
	if n.Has(p.ID) {
		return fmt.Errorf("duplicate property %s", p.ID)
	}
	n.Properties = append(n.Properties, p)
	return nil
}

func (c *Collection) Tree(id TreeID) *GameTree {
	return &c.trees[id]
}

func (c *Collection) Node(id NodeID) *Node {
	return &c.nodes[id]
}

func (c *Collection) NumTrees() int { return len(c.trees) }

func (c *Collection) NumNodes() int { return len(c.nodes) }

// Mark records the arena sizes so that a partially read top-level tree can
// be dropped with Rollback.
type Mark struct {
	trees, nodes, top int
}

func (c *Collection) Mark() Mark {
	return Mark{trees: len(c.trees), nodes: len(c.nodes), top: len(c.Trees)}
}

// Rollback drops every tree and node created after m. Only top-level trees
// may be rolled back.
func (c *Collection) Rollback(m Mark) {
	c.trees = c.trees[:m.trees]
	c.nodes = c.nodes[:m.nodes]
	c.Trees = c.Trees[:m.top]
}

// Parent returns the node preceding id in document order along its branch:
// the previous node of the sequence, or the last node of the parent tree.
func (c *Collection) Parent(id NodeID) NodeID {
	n := &c.nodes[id]
	t := &c.trees[n.Tree]
	for i, nid := range t.Nodes {
		if nid != id {
			continue
		}
		if i > 0 {
			return t.Nodes[i-1]
		}
		break
	}
	if t.Parent == NoTree {
		return NoNode
	}
	p := &c.trees[t.Parent]
	if len(p.Nodes) == 0 {
		return NoNode
	}
	return p.Nodes[len(p.Nodes)-1]
}

// Root returns the top-level tree containing id.
func (c *Collection) Root(id TreeID) TreeID {
	for c.trees[id].Parent != NoTree {
		id = c.trees[id].Parent
	}
	return id
}

func (c *Collection) FlavorOf(id TreeID) *Flavor {
	return c.trees[c.Root(id)].Flavor
}

// RootNode returns the first node of the top-level tree containing id.
func (c *Collection) RootNode(id TreeID) (*Node, bool) {
	t := &c.trees[c.Root(id)]
	if len(t.Nodes) == 0 {
		return nil, false
	}
	return &c.nodes[t.Nodes[0]], true
}

// Lookup returns the value of prop at node id. Inherited properties are
// searched on the ancestors as well.
func (c *Collection) Lookup(id NodeID, prop string) (Value, bool) {
	n := &c.nodes[id]
	if v, ok := n.Get(prop); ok {
		return v, true
	}
	f := c.FlavorOf(n.Tree)
	if f == nil {
		return nil, false
	}
	d, ok := f.Lookup(prop)
	if !ok || !d.Inherit {
		return nil, false
	}
	for p := c.Parent(id); p != NoNode; p = c.Parent(p) {
		if v, ok := c.nodes[p].Get(prop); ok {
			return v, true
		}
	}
	return nil, false
}

// MainLine returns the nodes of tree followed by the main line of its first
// variation, recursively.
func (c *Collection) MainLine(tree TreeID) []NodeID {
	var out []NodeID
	for {
		t := &c.trees[tree]
		out = append(out, t.Nodes...)
		if len(t.Children) == 0 {
			return out
		}
		tree = t.Children[0]
	}
}

// Walk visits the nodes of tree and its variations in document order.
func (c *Collection) Walk(tree TreeID, fn func(NodeID) error) error {
	t := &c.trees[tree]
	for _, n := range t.Nodes {
		if err := fn(n); err != nil {
			return err
		}
	}
	for _, child := range t.Children {
		if err := c.Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
