package topology

import (
	"errors"
	"fmt"

	"github.com/vk/fluxfield/internal/node"
	"github.com/vk/fluxfield/internal/registry"
)

// Index addresses a node within one Graph.
type Index int

// NoParent marks a root in the parent table.
const NoParent Index = -1

// Reader is the read-only view of a Graph handed to consumers.
type Reader interface {
	Len() int
	Node(i Index) (node.Resource, bool)
	Parent(i Index) (Index, bool)
	Children(i Index) []Index
	Roots() []Index
	Walk(fn WalkFunc) error
	OfType(h registry.TypeHandle) []Index
}

// Graph is an arena of resource instances linked by containment edges.
type Graph struct {
	nodes    []node.Resource
	parent   []Index
	children [][]Index
}

var _ Reader = (*Graph)(nil)

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends r as a new root and returns its index.
func (g *Graph) AddNode(r node.Resource) Index {
	i := Index(len(g.nodes))
	g.nodes = append(g.nodes, r)
	g.parent = append(g.parent, NoParent)
	g.children = append(g.children, nil)
	return i
}

// AddEdge makes child a direct child of parent.
func (g *Graph) AddEdge(parent, child Index) error {
	if !g.valid(parent) {
		return fmt.Errorf("parent index %d is not in the graph", parent)
	}
	if !g.valid(child) {
		return fmt.Errorf("child index %d is not in the graph", child)
	}
	if p := g.parent[child]; p != NoParent {
		return fmt.Errorf("node %d already has parent %d", child, p)
	}
	for a := parent; a != NoParent; a = g.parent[a] {
		if a == child {
			return fmt.Errorf("edge %d -> %d would create a cycle", parent, child)
		}
	}
	g.parent[child] = parent
	g.children[parent] = append(g.children[parent], child)
	return nil
}

func (g *Graph) valid(i Index) bool {
	return i >= 0 && int(i) < len(g.nodes)
}

// Len reports the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns a copy of the resource stored at i.
func (g *Graph) Node(i Index) (node.Resource, bool) {
	if !g.valid(i) {
		return node.Resource{}, false
	}
	return g.nodes[i], true
}

// Parent returns the parent of i, or false for roots and unknown indices.
func (g *Graph) Parent(i Index) (Index, bool) {
	if !g.valid(i) || g.parent[i] == NoParent {
		return NoParent, false
	}
	return g.parent[i], true
}

// Children returns the direct children of i in insertion order.
func (g *Graph) Children(i Index) []Index {
	if !g.valid(i) {
		return nil
	}
	out := make([]Index, len(g.children[i]))
	copy(out, g.children[i])
	return out
}

// Roots returns every node without a parent, in insertion order.
func (g *Graph) Roots() []Index {
	var out []Index
	for i, p := range g.parent {
		if p == NoParent {
			out = append(out, Index(i))
		}
	}
	return out
}

// WalkFunc is called for every node visited by Walk. Returning SkipChildren
// prunes the subtree below i; any other error stops the walk.
type WalkFunc func(i Index, depth int) error

// SkipChildren can be returned by a WalkFunc to skip the current subtree.
var SkipChildren = errors.New("skip children")

// Walk visits every node depth-first in pre-order, roots first, children in
// insertion order. Roots have depth 0.
func (g *Graph) Walk(fn WalkFunc) error {
	for _, r := range g.Roots() {
		if err := g.walk(r, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) walk(i Index, depth int, fn WalkFunc) error {
	if err := fn(i, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range g.children[i] {
		if err := g.walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// OfType returns every node of type h in index order.
func (g *Graph) OfType(h registry.TypeHandle) []Index {
	var out []Index
	for i := range g.nodes {
		if g.nodes[i].Type == h {
			out = append(out, Index(i))
		}
	}
	return out
}
