// Package yaml_adapter reads and writes resource descriptions as YAML and
// JSON using gopkg.in/yaml.v3. JSON input is parsed by the YAML decoder,
// which accepts it as a subset.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/tree"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// Load implements config.Loader. Every non-empty document in the file
// becomes one tree.
func (l *Loader) Load(ctx context.Context, path string) ([]any, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	docs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	logger.Debug("Loaded YAML file.", "path", path, "documents", len(docs))
	return docs, nil
}

// Parse decodes every document in data into a generic tree.
func Parse(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []any
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if v == nil {
			continue
		}
		n, err := tree.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, n)
	}
}
