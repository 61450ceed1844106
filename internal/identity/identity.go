// Package identity produces the opaque external identifiers attached to
// resource instances.
package identity

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator yields a fresh identifier on every call. Implementations must be
// safe for concurrent use.
type Generator interface {
	NewIdentifier() ([]byte, error)
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewIdentifier implements Generator.
func (UUID) NewIdentifier() ([]byte, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating uuid: %w", err)
	}
	return u[:], nil
}

// Sequential generates deterministic 16-byte identifiers whose last eight
// bytes hold a counter starting at Start. It is meant for tests and
// reproducible output.
type Sequential struct {
	Start uint64
	next  atomic.Uint64
}

// NewIdentifier implements Generator.
func (s *Sequential) NewIdentifier() ([]byte, error) {
	n := s.Start + s.next.Add(1) - 1
	id := make([]byte, 16)
	binary.BigEndian.PutUint64(id[8:], n)
	return id, nil
}

// Func adapts a plain function to Generator.
type Func func() ([]byte, error)

// NewIdentifier implements Generator.
func (f Func) NewIdentifier() ([]byte, error) {
	return f()
}

// ByName returns the generator selected by a configuration value.
func ByName(name string) (Generator, error) {
	switch name {
	case "", "uuid":
		return UUID{}, nil
	case "sequential":
		return &Sequential{}, nil
	default:
		return nil, fmt.Errorf("unknown identifier generator %q (want uuid or sequential)", name)
	}
}
