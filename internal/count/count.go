// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package count implements the count progression used to express how many
// instances of a resource are requested.
//
// A Count is a value (min, max, operand, operator). The progression starts at
// min and advances with Next, which applies the operator and operand to the
// current value. A plain integer N is shorthand for the exact count
// (N, N, 1, Add).
package count

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/tree"
)

// ErrInvalidOperator is the cause attached to InvalidCount errors produced
// for an unknown operator symbol.
var ErrInvalidOperator = errors.New("invalid count operator")

// Operator is the closed set of progression operators.
type Operator int

const (
	Add Operator = iota
	Multiply
	Power
)

// ParseOperator maps a wire symbol to an Operator.
func ParseOperator(sym string) (Operator, error) {
	switch sym {
	case "+":
		return Add, nil
	case "*":
		return Multiply, nil
	case "^":
		return Power, nil
	}
	return 0, &specerr.Error{
		Kind:  specerr.InvalidCount,
		Field: "operator",
		Msg:   fmt.Sprintf("unknown symbol %q (want one of +, *, ^)", sym),
		Err:   ErrInvalidOperator,
	}
}

func (o Operator) valid() bool {
	return o >= Add && o <= Power
}

// Symbol returns the single-character wire form.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Multiply:
		return "*"
	case Power:
		return "^"
	default:
		return "?"
	}
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Multiply:
		return "multiply"
	case Power:
		return "power"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Apply advances current by one step. Results that do not fit in an int64
// saturate at math.MaxInt64 so a progression always terminates.
func (o Operator) Apply(current, operand int64) int64 {
	switch o {
	case Add:
		if operand > 0 && current > math.MaxInt64-operand {
			return math.MaxInt64
		}
		return current + operand
	case Multiply:
		if current != 0 && operand != 0 {
			r := current * operand
			if r/operand != current {
				return math.MaxInt64
			}
			return r
		}
		return 0
	case Power:
		r := math.Ceil(math.Pow(float64(current), float64(operand)))
		if math.IsNaN(r) || r >= math.MaxInt64 {
			return math.MaxInt64
		}
		if r <= math.MinInt64 {
			return math.MinInt64
		}
		return int64(r)
	default:
		return current
	}
}

// Count is an immutable count progression.
type Count struct {
	min     int64
	max     int64
	operand int64
	op      Operator
}

// New validates and builds a Count. A max below min is raised to min.
func New(min, max, operand int64, op Operator) (Count, error) {
	if min < 0 {
		return Count{}, specerr.New(specerr.InvalidCount, "min", "must be non-negative, got %d", min)
	}
	if max < 0 {
		return Count{}, specerr.New(specerr.InvalidCount, "max", "must be non-negative, got %d", max)
	}
	if max < min {
		max = min
	}
	if max <= 0 {
		return Count{}, specerr.New(specerr.InvalidCount, "max", "resolved maximum must be positive, got %d", max)
	}
	if !op.valid() {
		return Count{}, &specerr.Error{
			Kind:  specerr.InvalidCount,
			Field: "operator",
			Msg:   fmt.Sprintf("operator %d is not one of add, multiply, power", int(op)),
			Err:   ErrInvalidOperator,
		}
	}
	return Count{min: min, max: max, operand: operand, op: op}, nil
}

// Exact is the count with min == max == n.
func Exact(n int64) (Count, error) {
	return New(n, n, 1, Add)
}

func (c Count) Min() int64         { return c.min }
func (c Count) Max() int64         { return c.max }
func (c Count) Operand() int64     { return c.operand }
func (c Count) Operator() Operator { return c.op }

// IsExact reports whether the progression has a single value.
func (c Count) IsExact() bool {
	return c.min == c.max
}

// Next returns the progression value following current.
func (c Count) Next(current int64) int64 {
	return c.op.Apply(current, c.operand)
}

func (c Count) String() string {
	if c.IsExact() {
		return fmt.Sprintf("%d", c.min)
	}
	return fmt.Sprintf("%d..%d (%s%d)", c.min, c.max, c.op.Symbol(), c.operand)
}

// Decode builds a Count from a generic tree: an integer scalar N, or a map
// {min, max?, operand?, operator?}.
func Decode(v any) (Count, error) {
	if m, ok := v.(map[string]any); ok {
		return decodeMap(m)
	}
	if tree.IsSeq(v) || v == nil {
		return Count{}, specerr.New(specerr.Decode, "", "count must be an integer or a map, got %s", tree.Describe(v))
	}
	n, err := tree.Int64(v)
	if err != nil {
		return Count{}, err
	}
	return Exact(n)
}

func decodeMap(m map[string]any) (Count, error) {
	raw, ok := tree.Lookup(m, "min")
	if !ok {
		return Count{}, specerr.New(specerr.Decode, "min", "is required")
	}
	min, err := tree.Int64(raw)
	if err != nil {
		return Count{}, specerr.Wrap(specerr.Decode, "min", err)
	}

	max := min
	if raw, ok := tree.Lookup(m, "max"); ok {
		if max, err = tree.Int64(raw); err != nil {
			return Count{}, specerr.Wrap(specerr.Decode, "max", err)
		}
	}

	operand := int64(1)
	if raw, ok := tree.Lookup(m, "operand"); ok {
		if operand, err = tree.Int64(raw); err != nil {
			return Count{}, specerr.Wrap(specerr.Decode, "operand", err)
		}
	}

	op := Add
	if raw, ok := tree.Lookup(m, "operator"); ok {
		sym, err := tree.String(raw)
		if err != nil {
			return Count{}, specerr.Wrap(specerr.Decode, "operator", err)
		}
		if op, err = ParseOperator(sym); err != nil {
			return Count{}, err
		}
	}

	return New(min, max, operand, op)
}

// Encode returns the four-field map form.
func (c Count) Encode() map[string]any {
	return map[string]any{
		"min":      c.min,
		"max":      c.max,
		"operand":  c.operand,
		"operator": c.op.Symbol(),
	}
}
