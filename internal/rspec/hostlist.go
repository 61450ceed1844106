package rspec

import (
	"fmt"
	"strconv"
	"strings"
)

// maxHostlist bounds the number of names a single hostlist may expand to.
const maxHostlist = 1 << 20

// ExpandHostlist expands a compact host list such as "hype[201-354]" or
// "a[1-3,7],b" into the individual names in order. Zero padding in a range
// bound ("n[01-10]") is preserved.
func ExpandHostlist(list string) ([]string, error) {
	parts, err := splitTopLevel(list)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names, err := expandOne(part)
		if err != nil {
			return nil, err
		}
		out = append(out, names...)
		if len(out) > maxHostlist {
			return nil, fmt.Errorf("hostlist %q expands to more than %d names", list, maxHostlist)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("hostlist %q is empty", list)
	}
	return out, nil
}

// splitTopLevel splits on commas outside brackets.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
			if depth > 1 {
				return nil, fmt.Errorf("hostlist %q has nested brackets", s)
			}
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("hostlist %q has an unmatched ']'", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("hostlist %q has an unmatched '['", s)
	}
	return append(parts, s[start:]), nil
}

// expandOne expands a single "prefix[ranges]suffix" item. Items may carry
// several bracket groups, which expand as a cartesian product left to right.
func expandOne(item string) ([]string, error) {
	open := strings.IndexByte(item, '[')
	if open < 0 {
		return []string{item}, nil
	}
	closeAt := strings.IndexByte(item[open:], ']') + open
	prefix, body, rest := item[:open], item[open+1:closeAt], item[closeAt+1:]

	values, err := expandRanges(body)
	if err != nil {
		return nil, fmt.Errorf("hostlist item %q: %w", item, err)
	}
	tails, err := expandOne(rest)
	if err != nil {
		return nil, err
	}
	if len(values)*len(tails) > maxHostlist {
		return nil, fmt.Errorf("hostlist item %q expands to more than %d names", item, maxHostlist)
	}

	out := make([]string, 0, len(values)*len(tails))
	for _, v := range values {
		for _, tail := range tails {
			out = append(out, prefix+v+tail)
		}
	}
	return out, nil
}

func expandRanges(body string) ([]string, error) {
	if body == "" {
		return nil, fmt.Errorf("empty range")
	}
	var out []string
	for _, r := range strings.Split(body, ",") {
		r = strings.TrimSpace(r)
		lo, hi, isRange := strings.Cut(r, "-")
		if !isRange {
			hi = lo
		}
		from, err := strconv.ParseUint(lo, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid range bound %q", lo)
		}
		to, err := strconv.ParseUint(hi, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid range bound %q", hi)
		}
		if to < from {
			return nil, fmt.Errorf("range %q is descending", r)
		}
		if to-from >= maxHostlist {
			return nil, fmt.Errorf("range %q is too large", r)
		}
		width := 0
		if len(lo) > 1 && lo[0] == '0' {
			width = len(lo)
		}
		for n := from; n <= to; n++ {
			out = append(out, fmt.Sprintf("%0*d", width, n))
		}
	}
	return out, nil
}
