package yaml_adapter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLEmitter renders a tree as block-style YAML with sorted keys.
type YAMLEmitter struct {
	Indent int
}

// Emit implements config.Emitter.
func (e YAMLEmitter) Emit(v any) ([]byte, error) {
	indent := e.Indent
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// JSONEmitter renders a tree as indented JSON.
type JSONEmitter struct{}

// Emit implements config.Emitter.
func (JSONEmitter) Emit(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return append(out, '\n'), nil
}
