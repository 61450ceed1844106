package registry

import (
	"sort"
)

// TypeHandle identifies a ResourceType within one Registry.
type TypeHandle int

// NoType is the handle of no type at all.
const NoType TypeHandle = -1

// ResourceType is a named category of resource such as "Node" or "Core".
type ResourceType struct {
	Name string
}

// Registry holds the distinct resource types of a single resource spec.
type Registry struct {
	types  []ResourceType
	byName map[string]TypeHandle
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		byName: make(map[string]TypeHandle),
	}
}

// Intern returns the handle for name, registering it on first use.
func (r *Registry) Intern(name string) TypeHandle {
	if h, ok := r.byName[name]; ok {
		return h
	}
	h := TypeHandle(len(r.types))
	r.types = append(r.types, ResourceType{Name: name})
	r.byName[name] = h
	return h
}

// Lookup finds an already registered type.
func (r *Registry) Lookup(name string) (TypeHandle, bool) {
	h, ok := r.byName[name]
	if !ok {
		return NoType, false
	}
	return h, true
}

// Type resolves a handle.
func (r *Registry) Type(h TypeHandle) (ResourceType, bool) {
	if h < 0 || int(h) >= len(r.types) {
		return ResourceType{}, false
	}
	return r.types[h], true
}

// Name resolves a handle to its type name, or "" for an unknown handle.
func (r *Registry) Name(h TypeHandle) string {
	t, _ := r.Type(h)
	return t.Name
}

// All returns every registered handle. The order is registration order but
// callers should treat the result as a set.
func (r *Registry) All() []TypeHandle {
	out := make([]TypeHandle, len(r.types))
	for i := range r.types {
		out[i] = TypeHandle(i)
	}
	return out
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of distinct types.
func (r *Registry) Len() int {
	return len(r.types)
}
