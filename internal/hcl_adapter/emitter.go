package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// blockKeys are the tree keys emitted as nested blocks rather than
// attributes when their value is a map or a sequence of maps.
var blockKeys = map[string]bool{
	"with":      true,
	"resources": true,
	"tasks":     true,
	"children":  true,
}

// Emitter renders a generic tree as HCL.
type Emitter struct{}

// NewEmitter creates a new HCL emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit implements config.Emitter. The tree must be a map.
func (e *Emitter) Emit(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("HCL output needs a map at the top level, got %T", v)
	}

	f := hclwrite.NewEmptyFile()
	if err := writeBody(f.Body(), m); err != nil {
		return nil, err
	}
	return hclwrite.Format(f.Bytes()), nil
}

func writeBody(body *hclwrite.Body, m map[string]any) error {
	var blocks []string
	for _, key := range sortedKeys(m) {
		if !hclsyntax.ValidIdentifier(key) {
			return fmt.Errorf("key %q is not a valid HCL identifier", key)
		}
		if blockKeys[key] && isBlockValue(m[key]) {
			blocks = append(blocks, key)
			continue
		}
		val, err := nativeToCty(m[key])
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		body.SetAttributeValue(key, val)
	}

	for _, key := range blocks {
		var items []any
		switch t := m[key].(type) {
		case map[string]any:
			items = []any{t}
		case []any:
			items = t
		}
		for _, item := range items {
			if err := writeBlock(body, key, item.(map[string]any)); err != nil {
				return fmt.Errorf("block %q: %w", key, err)
			}
		}
	}
	return nil
}

func writeBlock(parent *hclwrite.Body, typ string, content map[string]any) error {
	var labels []string
	if label, ok := content["type"].(string); ok {
		labels = []string{label}
		rest := make(map[string]any, len(content)-1)
		for k, v := range content {
			if k != "type" {
				rest[k] = v
			}
		}
		content = rest
	}
	parent.AppendNewline()
	block := parent.AppendNewBlock(typ, labels)
	return writeBody(block.Body(), content)
}

// isBlockValue reports whether v is a map or a non-empty sequence of maps.
func isBlockValue(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return true
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, elem := range t {
			if _, ok := elem.(map[string]any); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
