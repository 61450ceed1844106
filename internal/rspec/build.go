package rspec

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/fluxfield/internal/count"
	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/identity"
	"github.com/vk/fluxfield/internal/node"
	"github.com/vk/fluxfield/internal/nodeid"
	"github.com/vk/fluxfield/internal/registry"
	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/topology"
	"github.com/vk/fluxfield/internal/tree"
)

// DefaultMaxInstances bounds the size of a built graph unless overridden
// with WithMaxInstances.
const DefaultMaxInstances = 1 << 22

type options struct {
	ids          identity.Generator
	maxInstances int
}

// Option configures New.
type Option func(*options)

// WithIdentity sets the generator of external instance identifiers.
func WithIdentity(g identity.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// WithMaxInstances bounds the number of instances a build may create.
func WithMaxInstances(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxInstances = n
		}
	}
}

// Progression returns the values visited by c, starting at min and applying
// Next while the value stays within max. The walk ends early when the
// progression stops growing.
func Progression(c count.Count) []int64 {
	values := []int64{c.Min()}
	cur := c.Min()
	for {
		next := c.Next(cur)
		if next <= cur || next > c.Max() {
			return values
		}
		values = append(values, next)
		cur = next
	}
}

// Fanout is the number of sibling instances a level with count c produces:
// the last value of its progression.
func Fanout(c count.Count) int64 {
	if c.IsExact() {
		return c.Min()
	}
	values := Progression(c)
	return values[len(values)-1]
}

// New decodes a resource description tree and expands it into a graph. A
// map yields a single root; a sequence of maps yields one root group per
// element, each fanned out by its count. On error no ResourceSpec is
// returned.
func New(ctx context.Context, v any, opts ...Option) (*ResourceSpec, error) {
	logger := ctxlog.FromContext(ctx)

	o := options{ids: identity.UUID{}, maxInstances: DefaultMaxInstances}
	for _, opt := range opts {
		opt(&o)
	}

	descs, forest, err := decodeTop(v)
	if err != nil {
		return nil, err
	}

	b := &builder{
		graph:    topology.New(),
		registry: registry.New(),
		ids:      o.ids,
		limit:    o.maxInstances,
	}

	if !forest {
		d := descs[0]
		logger.Debug("Building resource graph.", "root_type", d.Type)
		size := int64(1)
		if d.Unit != "" {
			size = Fanout(d.Count)
		} else if Fanout(d.Count) != 1 {
			logger.Warn("Top-level count ignored; a single root is created.", "type", d.Type, "count", d.Count.String())
		}
		name := d.Type
		switch {
		case d.Names != nil:
			name = d.Names[0]
		case d.Name != "":
			name = d.Name
		}
		if _, err := b.instantiate(ctx, d, topology.NoParent, nodeid.Root(d.Type, 0), name, size); err != nil {
			return nil, err
		}
	} else {
		logger.Debug("Building resource forest.", "groups", len(descs))
		counters := make(map[string]int)
		for _, d := range descs {
			if err := b.expand(ctx, d, topology.NoParent, nodeid.Address{}, counters); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Resource graph built.", "instances", b.graph.Len(), "types", b.registry.Len())
	return &ResourceSpec{
		graph:        b.graph,
		registry:     b.registry,
		descriptions: descs,
		forest:       forest,
	}, nil
}

func decodeTop(v any) ([]*Description, bool, error) {
	seq, isSeq := v.([]any)
	if !isSeq {
		d, err := DecodeDescription(v)
		if err != nil {
			return nil, false, err
		}
		return []*Description{d}, false, nil
	}
	if len(seq) == 0 {
		return nil, false, specerr.New(specerr.MalformedSpec, "", "resource list is empty")
	}
	descs := make([]*Description, 0, len(seq))
	for i, elem := range seq {
		d, err := DecodeDescription(elem)
		if err != nil {
			return nil, false, specerr.Wrap(specerr.MalformedSpec, fmt.Sprintf("[%d]", i), err)
		}
		descs = append(descs, d)
	}
	return descs, true, nil
}

type builder struct {
	graph    *topology.Graph
	registry *registry.Registry
	ids      identity.Generator
	limit    int
	nextID   uint64
}

// expand creates the sibling instances for d below parent. counters holds the
// next sibling index per type under parent, so several descriptions of the
// same type never produce clashing paths.
func (b *builder) expand(ctx context.Context, d *Description, parent topology.Index, parentPath nodeid.Address, counters map[string]int) error {
	logger := ctxlog.FromContext(ctx)

	fanout := Fanout(d.Count)
	logger.Debug("Expanding resource level.", "type", d.Type, "count", d.Count.String(), "fanout", fanout, "parent", parentPath.String())

	if d.Unit != "" {
		if fanout == 0 {
			return nil
		}
		idx := counters[d.Type]
		counters[d.Type]++
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", d.Type, idx)
		}
		_, err := b.instantiate(ctx, d, parent, parentPath.Child(d.Type, idx), name, fanout)
		return err
	}

	if fanout > int64(b.limit-b.graph.Len()) || fanout > math.MaxInt32 {
		return specerr.New(specerr.MalformedSpec, parentPath.String(),
			"%s fan-out of %d exceeds the limit of %d instances", d.Type, fanout, b.limit)
	}

	for k := int64(0); k < fanout; k++ {
		idx := counters[d.Type]
		counters[d.Type]++

		var name string
		switch {
		case d.Names != nil:
			name = d.Names[k]
		case d.Name != "" && fanout == 1:
			name = d.Name
		case d.Name != "":
			name = fmt.Sprintf("%s%d", d.Name, k)
		default:
			name = fmt.Sprintf("%s%d", d.Type, idx)
		}

		if _, err := b.instantiate(ctx, d, parent, parentPath.Child(d.Type, idx), name, 1); err != nil {
			return err
		}
	}
	return nil
}

// instantiate creates one instance of d, links it below parent and recurses
// into d.With.
func (b *builder) instantiate(ctx context.Context, d *Description, parent topology.Index, path nodeid.Address, name string, size int64) (topology.Index, error) {
	if b.graph.Len() >= b.limit {
		return 0, specerr.New(specerr.MalformedSpec, path.String(), "graph exceeds the limit of %d instances", b.limit)
	}

	// Types are interned before their first instance exists.
	h := b.registry.Intern(d.Type)

	ext, err := b.ids.NewIdentifier()
	if err != nil {
		return 0, fmt.Errorf("assigning identifier to %s: %w", path.String(), err)
	}

	r := node.Resource{
		Name:       name,
		ID:         b.nextID,
		ExternalID: ext,
		Type:       h,
		Path:       path,
		Unit:       d.Unit,
		Size:       size,
		Exclusive:  d.Exclusive,
		Tags:       cloneStrings(d.Tags),
		Attrs:      cloneAttrs(d.Attrs),
	}
	b.nextID++

	i := b.graph.AddNode(r)
	if parent != topology.NoParent {
		if err := b.graph.AddEdge(parent, i); err != nil {
			return 0, fmt.Errorf("linking %s: %w", path.String(), err)
		}
	}

	counters := make(map[string]int)
	for _, child := range d.With {
		if err := b.expand(ctx, child, i, path, counters); err != nil {
			return 0, err
		}
	}
	return i, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneAttrs(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	return tree.Clone(in).(map[string]any)
}
