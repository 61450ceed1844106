package nodeid

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSegment represents a single component of an address path, e.g. `name[index]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

func (ps PathSegment) String() string {
	if !ps.HasIndex() {
		return ps.Name
	}
	return ps.Name + "[" + strconv.Itoa(ps.Index) + "]"
}

// Address is the location of an instance, from its root down.
type Address struct {
	Path []PathSegment
}

// Root returns the single-segment address of a root instance.
func Root(name string, index int) Address {
	return Address{Path: []PathSegment{NewPathSegmentWithIndex(name, index)}}
}

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment.String())
	}
	return sb.String()
}

// Equal reports whether both addresses name the same location.
func (a Address) Equal(other Address) bool {
	if len(a.Path) != len(other.Path) {
		return false
	}
	for i := range a.Path {
		if a.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

// Child returns the address one level below a.
func (a Address) Child(name string, index int) Address {
	path := make([]PathSegment, len(a.Path), len(a.Path)+1)
	copy(path, a.Path)
	return Address{Path: append(path, NewPathSegmentWithIndex(name, index))}
}

// Parent returns the address one level above a. The parent of a root is the
// empty address.
func (a Address) Parent() Address {
	if len(a.Path) <= 1 {
		return Address{}
	}
	path := make([]PathSegment, len(a.Path)-1)
	copy(path, a.Path)
	return Address{Path: path}
}

// Depth is the number of segments; roots have depth 1.
func (a Address) Depth() int {
	return len(a.Path)
}

// Last returns the final segment, or false for the empty address.
func (a Address) Last() (PathSegment, bool) {
	if len(a.Path) == 0 {
		return PathSegment{}, false
	}
	return a.Path[len(a.Path)-1], true
}

// IsZero reports whether a is the empty address.
func (a Address) IsZero() bool {
	return len(a.Path) == 0
}

// Parse reads an address in the form printed by Address.String:
//
//	address = segment { "." segment }
//	segment = name [ "[" digit { digit } "]" ]
//	name    = { letter | digit | "_" | "-" | ":" }, not made of "-" and ":" only
//
// Names allow "-" and ":" because explicit instance names are often host
// names such as "hype-201".
func Parse(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}

	var addr Address
	for _, raw := range strings.Split(s, ".") {
		seg, err := parseSegment(raw)
		if err != nil {
			return Address{}, err
		}
		addr.Path = append(addr.Path, seg)
	}
	return addr, nil
}

func parseSegment(raw string) (PathSegment, error) {
	if raw == "" {
		return PathSegment{}, fmt.Errorf("address contains an empty segment")
	}

	end := 0
	for end < len(raw) && isNameByte(raw[end]) {
		end++
	}
	name := raw[:end]
	if strings.Trim(name, "-:") == "" {
		return PathSegment{}, fmt.Errorf("invalid segment name in %q", raw)
	}
	rest := raw[end:]
	if rest == "" {
		return NewPathSegment(name), nil
	}

	digits, ok := strings.CutPrefix(rest, "[")
	if ok {
		digits, ok = strings.CutSuffix(digits, "]")
	}
	if !ok || digits == "" || strings.Trim(digits, "0123456789") != "" {
		return PathSegment{}, fmt.Errorf("invalid path segment format: %q", raw)
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return PathSegment{}, fmt.Errorf("index in %q: %w", raw, err)
	}
	return NewPathSegmentWithIndex(name, index), nil
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == ':'
}
