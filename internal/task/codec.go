package task

import (
	"fmt"

	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/tree"
)

func errInvalidTask(field, msg string) error {
	return &specerr.Error{Kind: specerr.InvalidTask, Field: field, Msg: msg}
}

// Decode builds a Task from its generic-tree form:
//
//	command: [srun, ./app]
//	slot:    {level: Core}        # or {label: ...}
//	count:   {per_slot: 1}        # or {total: n}
//	distribution: scatter
//	attrs:   {key: value}
//
// Shape errors are Decode errors; an empty command is an InvalidTask error.
func Decode(v any) (Task, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Task{}, specerr.New(specerr.Decode, "", "task must be a map, got %s", tree.Describe(v))
	}

	raw, ok := tree.Lookup(m, "command")
	if !ok {
		return Task{}, specerr.New(specerr.Decode, "command", "is required")
	}
	if !tree.IsSeq(raw) {
		return Task{}, specerr.New(specerr.Decode, "command", "must be a sequence, got %s", tree.Describe(raw))
	}
	command, err := tree.Strings(raw)
	if err != nil {
		return Task{}, specerr.Wrap(specerr.Decode, "command", err)
	}

	raw, ok = tree.Lookup(m, "count")
	if !ok {
		return Task{}, specerr.New(specerr.Decode, "count", "is required")
	}
	count, err := decodeCount(raw)
	if err != nil {
		return Task{}, specerr.Wrap(specerr.Decode, "count", err)
	}

	raw, ok = tree.Lookup(m, "slot")
	if !ok {
		return Task{}, specerr.New(specerr.Decode, "slot", "is required")
	}
	slot, err := decodeSlot(raw)
	if err != nil {
		return Task{}, specerr.Wrap(specerr.Decode, "slot", err)
	}

	distribution := DefaultDistribution
	if raw, ok := tree.Lookup(m, "distribution"); ok {
		if distribution, err = tree.String(raw); err != nil {
			return Task{}, specerr.Wrap(specerr.Decode, "distribution", err)
		}
	}

	var attrs map[string]string
	if raw, ok := tree.Lookup(m, "attrs"); ok {
		if attrs, err = tree.StringMap(raw); err != nil {
			return Task{}, specerr.Wrap(specerr.Decode, "attrs", err)
		}
	}

	return New(command, slot, count, distribution, attrs)
}

func decodeCount(raw any) (Count, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Count{}, specerr.New(specerr.Decode, "", "must be a map, got %s", tree.Describe(raw))
	}

	key, ctor := "", PerSlot
	if _, ok := tree.Lookup(m, "total"); ok {
		key, ctor = "total", Total
	} else if _, ok := tree.Lookup(m, "per_slot"); ok {
		key = "per_slot"
	}
	if key == "" {
		return PerSlot(1), nil
	}

	n, err := tree.Int64(m[key])
	if err != nil {
		return Count{}, specerr.Wrap(specerr.Decode, key, err)
	}
	return ctor(n), nil
}

func decodeSlot(raw any) (Slot, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Slot{}, specerr.New(specerr.Decode, "", "must be a map, got %s", tree.Describe(raw))
	}
	if v, ok := tree.Lookup(m, "level"); ok {
		name, err := tree.Scalar(v)
		if err != nil {
			return Slot{}, specerr.Wrap(specerr.Decode, "level", err)
		}
		return Level(name), nil
	}
	if v, ok := tree.Lookup(m, "label"); ok {
		name, err := tree.Scalar(v)
		if err != nil {
			return Slot{}, specerr.Wrap(specerr.Decode, "label", err)
		}
		return Label(name), nil
	}
	return Label(""), nil
}

// Encode returns the canonical generic-tree form. attrs is emitted only when
// non-empty.
func (t Task) Encode() map[string]any {
	command := make([]any, len(t.command))
	for i, arg := range t.command {
		command[i] = arg
	}

	out := map[string]any{
		"command":      command,
		"slot":         map[string]any{t.slot.kind.String(): t.slot.name},
		"count":        map[string]any{t.count.kind.String(): t.count.n},
		"distribution": t.distribution,
	}
	if len(t.attrs) > 0 {
		attrs := make(map[string]any, len(t.attrs))
		for k, v := range t.attrs {
			attrs[k] = v
		}
		out["attrs"] = attrs
	}
	return out
}

// DecodeList decodes a single task map or a sequence of them.
func DecodeList(v any) ([]Task, error) {
	if tree.IsMap(v) {
		t, err := Decode(v)
		if err != nil {
			return nil, err
		}
		return []Task{t}, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, specerr.New(specerr.Decode, "", "tasks must be a map or a sequence, got %s", tree.Describe(v))
	}
	out := make([]Task, 0, len(seq))
	for i, elem := range seq {
		t, err := Decode(elem)
		if err != nil {
			return nil, specerr.Wrap(specerr.Decode, fmt.Sprintf("[%d]", i), err)
		}
		out = append(out, t)
	}
	return out, nil
}

// EncodeList encodes tasks as a sequence.
func EncodeList(tasks []Task) []any {
	out := make([]any, len(tasks))
	for i, t := range tasks {
		out[i] = t.Encode()
	}
	return out
}
