package rspec

import (
	"fmt"

	"github.com/vk/fluxfield/internal/count"
	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/tree"
)

// Description is one decoded level of a resource description:
//
//	type: Node
//	count: 1
//	with:
//	  - type: Socket
//	    count: 2
//	    with: {type: Core, count: 4}
//
// A Description is validated as a whole before anything is built from it.
type Description struct {
	Type  string
	Count count.Count
	With  []*Description
	Attrs map[string]any

	// Name labels the instances created from this level.
	Name string
	// Names gives every instance its own name; the fan-out is len(Names).
	Names []string
	// Unit turns the level into a single pooled instance of Count units.
	Unit      string
	Exclusive bool
	Tags      []string
}

// DecodeDescription decodes a resource description tree. Error fields locate
// the offending value relative to v, e.g. "with[1].count.min". Unknown keys
// are ignored.
func DecodeDescription(v any) (*Description, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, specerr.New(specerr.MalformedSpec, "", "resource description must be a map, got %s", tree.Describe(v))
	}

	d := &Description{}

	raw, ok := tree.Lookup(m, "type")
	if !ok {
		return nil, specerr.New(specerr.MalformedSpec, "type", "is required")
	}
	typ, isString := raw.(string)
	if !isString || typ == "" {
		return nil, specerr.New(specerr.MalformedSpec, "type", "must be a non-empty string, got %s", tree.Describe(raw))
	}
	d.Type = typ

	if raw, ok := tree.Lookup(m, "names"); ok {
		if _, hasCount := tree.Lookup(m, "count"); hasCount {
			return nil, specerr.New(specerr.MalformedSpec, "names", "cannot be combined with count")
		}
		names, err := decodeNames(raw)
		if err != nil {
			return nil, err
		}
		d.Names = names
		if d.Count, err = count.Exact(int64(len(names))); err != nil {
			return nil, specerr.Wrap(specerr.InvalidCount, "names", err)
		}
	} else if raw, ok := tree.Lookup(m, "count"); ok {
		c, err := count.Decode(raw)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, "count", err)
		}
		d.Count = c
	} else {
		d.Count, _ = count.Exact(1)
	}

	if raw, ok := tree.Lookup(m, "with"); ok {
		with, err := decodeWith(raw)
		if err != nil {
			return nil, err
		}
		d.With = with
	}

	if raw, ok := tree.Lookup(m, "attrs"); ok {
		attrs, isMap := raw.(map[string]any)
		if !isMap {
			return nil, specerr.New(specerr.MalformedSpec, "attrs", "must be a map, got %s", tree.Describe(raw))
		}
		if len(attrs) > 0 {
			d.Attrs = tree.Clone(attrs).(map[string]any)
		}
	}

	if raw, ok := tree.Lookup(m, "name"); ok {
		name, isString := raw.(string)
		if !isString || name == "" {
			return nil, specerr.New(specerr.MalformedSpec, "name", "must be a non-empty string, got %s", tree.Describe(raw))
		}
		d.Name = name
	}

	if raw, ok := tree.Lookup(m, "unit"); ok {
		unit, isString := raw.(string)
		if !isString || unit == "" {
			return nil, specerr.New(specerr.MalformedSpec, "unit", "must be a non-empty string, got %s", tree.Describe(raw))
		}
		if d.Names != nil {
			return nil, specerr.New(specerr.MalformedSpec, "unit", "cannot be combined with names")
		}
		d.Unit = unit
	}

	if raw, ok := tree.Lookup(m, "exclusive"); ok {
		b, err := tree.Bool(raw)
		if err != nil {
			return nil, specerr.New(specerr.MalformedSpec, "exclusive", "must be a boolean, got %s", tree.Describe(raw))
		}
		d.Exclusive = b
	}

	if raw, ok := tree.Lookup(m, "tags"); ok {
		tags, err := decodeTags(raw)
		if err != nil {
			return nil, err
		}
		d.Tags = tags
	}

	return d, nil
}

func decodeWith(raw any) ([]*Description, error) {
	switch t := raw.(type) {
	case map[string]any:
		child, err := DecodeDescription(t)
		if err != nil {
			return nil, specerr.Wrap(specerr.MalformedSpec, "with", err)
		}
		return []*Description{child}, nil
	case []any:
		out := make([]*Description, 0, len(t))
		for i, elem := range t {
			field := fmt.Sprintf("with[%d]", i)
			if !tree.IsMap(elem) {
				return nil, specerr.New(specerr.MalformedSpec, field, "must be a map, got %s", tree.Describe(elem))
			}
			child, err := DecodeDescription(elem)
			if err != nil {
				return nil, specerr.Wrap(specerr.MalformedSpec, field, err)
			}
			out = append(out, child)
		}
		return out, nil
	default:
		return nil, specerr.New(specerr.MalformedSpec, "with", "must be a map or a sequence of maps, got %s", tree.Describe(raw))
	}
}

func decodeNames(raw any) ([]string, error) {
	var items []string
	switch t := raw.(type) {
	case string:
		items = []string{t}
	case []any:
		for i, elem := range t {
			s, ok := elem.(string)
			if !ok {
				return nil, specerr.New(specerr.MalformedSpec, fmt.Sprintf("names[%d]", i), "must be a string, got %s", tree.Describe(elem))
			}
			items = append(items, s)
		}
	default:
		return nil, specerr.New(specerr.MalformedSpec, "names", "must be a hostlist string or a sequence of strings, got %s", tree.Describe(raw))
	}

	var names []string
	seen := make(map[string]struct{})
	for _, item := range items {
		expanded, err := ExpandHostlist(item)
		if err != nil {
			return nil, &specerr.Error{Kind: specerr.MalformedSpec, Field: "names", Err: err}
		}
		for _, n := range expanded {
			if _, dup := seen[n]; dup {
				return nil, specerr.New(specerr.MalformedSpec, "names", "duplicate name %q", n)
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, specerr.New(specerr.MalformedSpec, "names", "must name at least one instance")
	}
	return names, nil
}

func decodeTags(raw any) ([]string, error) {
	seq, ok := raw.([]any)
	if !ok {
		return nil, specerr.New(specerr.MalformedSpec, "tags", "must be a sequence of strings, got %s", tree.Describe(raw))
	}
	tags := make([]string, 0, len(seq))
	for i, elem := range seq {
		s, ok := elem.(string)
		if !ok {
			return nil, specerr.New(specerr.MalformedSpec, fmt.Sprintf("tags[%d]", i), "must be a string, got %s", tree.Describe(elem))
		}
		tags = append(tags, s)
	}
	return tags, nil
}

// Encode returns the canonical description tree. Exact counts are emitted as
// a scalar, ranges in their four-field form.
func (d *Description) Encode() map[string]any {
	out := map[string]any{"type": d.Type}
	if d.Names != nil {
		names := make([]any, len(d.Names))
		for i, n := range d.Names {
			names[i] = n
		}
		out["names"] = names
	} else if d.Count.IsExact() {
		out["count"] = d.Count.Min()
	} else {
		out["count"] = d.Count.Encode()
	}
	if len(d.With) > 0 {
		with := make([]any, len(d.With))
		for i, child := range d.With {
			with[i] = child.Encode()
		}
		out["with"] = with
	}
	if len(d.Attrs) > 0 {
		out["attrs"] = tree.Clone(d.Attrs)
	}
	if d.Name != "" {
		out["name"] = d.Name
	}
	if d.Unit != "" {
		out["unit"] = d.Unit
	}
	if d.Exclusive {
		out["exclusive"] = true
	}
	if len(d.Tags) > 0 {
		tags := make([]any, len(d.Tags))
		for i, tag := range d.Tags {
			tags[i] = tag
		}
		out["tags"] = tags
	}
	return out
}

// Types returns the distinct types named by d and its descendants in
// first-seen depth-first order.
func (d *Description) Types() []string {
	var out []string
	seen := make(map[string]struct{})
	var visit func(*Description)
	visit = func(cur *Description) {
		if _, ok := seen[cur.Type]; !ok {
			seen[cur.Type] = struct{}{}
			out = append(out, cur.Type)
		}
		for _, child := range cur.With {
			visit(child)
		}
	}
	visit(d)
	return out
}
