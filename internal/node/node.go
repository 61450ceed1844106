// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package node defines a single concrete resource instance.
//
// A Resource is created once by the graph builder and never mutated
// afterwards. It refers to its type through a registry handle and to its
// position through an instance path.
package node

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/vk/fluxfield/internal/nodeid"
	"github.com/vk/fluxfield/internal/registry"
)

// Resource is one instance of a resource type, e.g. the fourth core of the
// second socket.
type Resource struct {
	// Name is the instance label, e.g. "Core3" or an explicit hostname.
	Name string
	// ID is unique and sequential within one graph, starting at 0 in
	// creation order.
	ID uint64
	// ExternalID is the opaque globally unique identifier.
	ExternalID []byte
	Type       registry.TypeHandle
	Path       nodeid.Address

	// Unit and Size describe a pooled resource such as 15000 MB of memory.
	// Unit is empty and Size is 1 for ordinary instances.
	Unit string
	Size int64

	Exclusive bool
	Tags      []string
	Attrs     map[string]any
}

// ExternalIDString renders ExternalID in UUID form when it is 16 bytes long
// and as hex otherwise.
func (r *Resource) ExternalIDString() string {
	if len(r.ExternalID) == 16 {
		if u, err := uuid.FromBytes(r.ExternalID); err == nil {
			return u.String()
		}
	}
	return hex.EncodeToString(r.ExternalID)
}

// IsPool reports whether the instance stands for a quantity of Unit.
func (r *Resource) IsPool() bool {
	return r.Unit != ""
}
