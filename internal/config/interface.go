package config

import (
	"context"
)

// Loader is the interface for a format-specific document loader.
type Loader interface {
	// Load reads the file at path and returns one generic tree per document
	// it contains. Formats without multi-document support return one tree.
	Load(ctx context.Context, path string) ([]any, error)

	// Extensions lists the file extensions the loader handles, including
	// the leading dot.
	Extensions() []string
}

// Emitter renders a generic tree as text.
type Emitter interface {
	Emit(tree any) ([]byte, error)
}

// EmitterFunc adapts a plain function to Emitter.
type EmitterFunc func(tree any) ([]byte, error)

// Emit implements Emitter.
func (f EmitterFunc) Emit(tree any) ([]byte, error) {
	return f(tree)
}
