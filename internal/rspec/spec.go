package rspec

import (
	"errors"
	"fmt"

	"github.com/vk/fluxfield/internal/nodeid"
	"github.com/vk/fluxfield/internal/registry"
	"github.com/vk/fluxfield/internal/topology"
)

// ResourceSpec owns a built resource graph together with the registry of its
// types and the descriptions it was built from. It is read-only once New
// returns and safe for concurrent readers.
type ResourceSpec struct {
	graph        *topology.Graph
	registry     *registry.Registry
	descriptions []*Description
	forest       bool
}

// Graph returns the read-only view of the instance graph.
func (s *ResourceSpec) Graph() topology.Reader {
	return s.graph
}

// Registry returns the registry of every type present in the graph.
func (s *ResourceSpec) Registry() *registry.Registry {
	return s.registry
}

// Roots returns the root instances.
func (s *ResourceSpec) Roots() []topology.Index {
	return s.graph.Roots()
}

// Description returns the top-level description, or nil when the spec was
// built from a sequence of descriptions.
func (s *ResourceSpec) Description() *Description {
	if s.forest {
		return nil
	}
	return s.descriptions[0]
}

// Descriptions returns every top-level description.
func (s *ResourceSpec) Descriptions() []*Description {
	out := make([]*Description, len(s.descriptions))
	copy(out, s.descriptions)
	return out
}

// Instances returns the instances of the named type in creation order.
func (s *ResourceSpec) Instances(typeName string) []topology.Index {
	h, ok := s.registry.Lookup(typeName)
	if !ok {
		return nil
	}
	return s.graph.OfType(h)
}

// CountOf returns the number of instances of the named type.
func (s *ResourceSpec) CountOf(typeName string) int {
	return len(s.Instances(typeName))
}

// Capacity sums Size over the instances of the named type, so a pool of
// 15000 MB counts as 15000.
func (s *ResourceSpec) Capacity(typeName string) int64 {
	var total int64
	for _, i := range s.Instances(typeName) {
		r, _ := s.graph.Node(i)
		total += r.Size
	}
	return total
}

var errFound = errors.New("found")

// Find returns the instance at path, written the way Resource.Path prints
// it: "Node[0].Socket[1].Core[3]".
func (s *ResourceSpec) Find(path string) (topology.Index, error) {
	addr, err := nodeid.Parse(path)
	if err != nil {
		return topology.NoParent, fmt.Errorf("invalid instance path: %w", err)
	}

	found := topology.NoParent
	err = s.graph.Walk(func(i topology.Index, depth int) error {
		r, _ := s.graph.Node(i)
		if depth >= addr.Depth() || !r.Path.Equal(nodeid.Address{Path: addr.Path[:depth+1]}) {
			return topology.SkipChildren
		}
		if depth == addr.Depth()-1 {
			found = i
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return topology.NoParent, err
	}
	if found == topology.NoParent {
		return topology.NoParent, fmt.Errorf("no instance at %s", addr)
	}
	return found, nil
}

// Encode returns the canonical description tree: a map for a single root,
// a sequence for a forest.
func (s *ResourceSpec) Encode() any {
	if !s.forest {
		return s.descriptions[0].Encode()
	}
	out := make([]any, len(s.descriptions))
	for i, d := range s.descriptions {
		out[i] = d.Encode()
	}
	return out
}

// EncodeGraph returns the built topology as a generic tree:
//
//	types: [Core, Node, Socket]
//	resources:
//	  - {id: 0, uuid: ..., type: Node, name: Node, path: Node[0], size: 1, children: [...]}
func (s *ResourceSpec) EncodeGraph() map[string]any {
	types := make([]any, 0, s.registry.Len())
	for _, n := range s.registry.Names() {
		types = append(types, n)
	}

	roots := s.graph.Roots()
	resources := make([]any, 0, len(roots))
	for _, r := range roots {
		resources = append(resources, s.encodeNode(r))
	}

	return map[string]any{
		"types":     types,
		"resources": resources,
	}
}

func (s *ResourceSpec) encodeNode(i topology.Index) map[string]any {
	r, _ := s.graph.Node(i)
	out := map[string]any{
		"id":   r.ID,
		"uuid": r.ExternalIDString(),
		"type": s.registry.Name(r.Type),
		"name": r.Name,
		"path": r.Path.String(),
		"size": r.Size,
	}
	if r.IsPool() {
		out["unit"] = r.Unit
	}
	if r.Exclusive {
		out["exclusive"] = true
	}
	if len(r.Tags) > 0 {
		tags := make([]any, len(r.Tags))
		for k, t := range r.Tags {
			tags[k] = t
		}
		out["tags"] = tags
	}
	if len(r.Attrs) > 0 {
		out["attrs"] = cloneAttrs(r.Attrs)
	}
	if kids := s.graph.Children(i); len(kids) > 0 {
		children := make([]any, len(kids))
		for k, c := range kids {
			children[k] = s.encodeNode(c)
		}
		out["children"] = children
	}
	return out
}

// Summary is a per-type instance count.
type Summary struct {
	Type      string
	Instances int
	Capacity  int64
}

// Summarize returns one entry per type, sorted by type name.
func (s *ResourceSpec) Summarize() []Summary {
	names := s.registry.Names()
	out := make([]Summary, 0, len(names))
	for _, n := range names {
		out = append(out, Summary{Type: n, Instances: s.CountOf(n), Capacity: s.Capacity(n)})
	}
	return out
}
