// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package task describes how tasks are launched relative to a resource level
// or label.
//
// A Task is an immutable value: the command line, a slot selector, a count
// that is either per slot or in total, a distribution policy name and free
// form string attributes. It is validated on construction and has a
// canonical generic-tree form (see Decode and Encode). Matching a task
// against a resource graph is the scheduler's job, not this package's.
package task

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultDistribution is used when a decoded task names no distribution.
const DefaultDistribution = "???"

// SlotKind tells the two slot selector variants apart.
type SlotKind int

const (
	// LevelSlot selects a resource level by type name.
	LevelSlot SlotKind = iota
	// LabelSlot selects by an arbitrary label.
	LabelSlot
)

func (k SlotKind) String() string {
	switch k {
	case LevelSlot:
		return "level"
	case LabelSlot:
		return "label"
	default:
		return fmt.Sprintf("SlotKind(%d)", int(k))
	}
}

// Slot is either Level(name) or Label(name).
type Slot struct {
	kind SlotKind
	name string
}

// Level selects the resource level with the given type name.
func Level(name string) Slot { return Slot{kind: LevelSlot, name: name} }

// Label selects by label.
func Label(name string) Slot { return Slot{kind: LabelSlot, name: name} }

func (s Slot) Kind() SlotKind { return s.kind }
func (s Slot) Name() string   { return s.name }

// IsLevel reports whether s selects a resource level.
func (s Slot) IsLevel() bool { return s.kind == LevelSlot }

func (s Slot) String() string { return s.kind.String() + "(" + s.name + ")" }

// CountKind tells the two count variants apart.
type CountKind int

const (
	// PerSlotCount launches n tasks in every matched slot.
	PerSlotCount CountKind = iota
	// TotalCount launches n tasks overall.
	TotalCount
)

func (k CountKind) String() string {
	switch k {
	case PerSlotCount:
		return "per_slot"
	case TotalCount:
		return "total"
	default:
		return fmt.Sprintf("CountKind(%d)", int(k))
	}
}

// Count is either PerSlot(n) or Total(n).
type Count struct {
	kind CountKind
	n    int64
}

// PerSlot launches n tasks per matched slot.
func PerSlot(n int64) Count { return Count{kind: PerSlotCount, n: n} }

// Total launches n tasks in total.
func Total(n int64) Count { return Count{kind: TotalCount, n: n} }

func (c Count) Kind() CountKind { return c.kind }
func (c Count) N() int64        { return c.n }

func (c Count) String() string { return fmt.Sprintf("%s(%d)", c.kind, c.n) }

// Task is a validated task placement descriptor.
type Task struct {
	command      []string
	slot         Slot
	count        Count
	distribution string
	attrs        map[string]string
}

// New validates and builds a Task. Slices and maps are copied.
func New(command []string, slot Slot, count Count, distribution string, attrs map[string]string) (Task, error) {
	if len(command) == 0 {
		return Task{}, errInvalidTask("command", "must not be empty")
	}
	if command[0] == "" {
		return Task{}, errInvalidTask("command[0]", "must not be empty")
	}

	t := Task{
		command:      slices.Clone(command),
		slot:         slot,
		count:        count,
		distribution: distribution,
	}
	if len(attrs) > 0 {
		t.attrs = maps.Clone(attrs)
	}
	return t, nil
}

// Command returns a copy of the argv-style command.
func (t Task) Command() []string { return slices.Clone(t.command) }

func (t Task) Slot() Slot           { return t.slot }
func (t Task) Count() Count         { return t.count }
func (t Task) Distribution() string { return t.distribution }

// Attrs returns a copy of the attributes; nil when there are none.
func (t Task) Attrs() map[string]string {
	if len(t.attrs) == 0 {
		return nil
	}
	return maps.Clone(t.attrs)
}

// Equal reports structural equality. Nil and empty attributes are equal.
func (t Task) Equal(other Task) bool {
	return slices.Equal(t.command, other.command) &&
		t.slot == other.slot &&
		t.count == other.count &&
		t.distribution == other.distribution &&
		maps.Equal(t.attrs, other.attrs)
}

func (t Task) String() string {
	return fmt.Sprintf("%v on %s x %s (%s)", t.command, t.slot, t.count, t.distribution)
}
