// Package hcl_adapter reads and writes resource descriptions in HCL.
//
// The mapping to the generic tree is:
//
//   - attributes become map entries, with values converted from cty
//     (whole numbers become int64, other numbers float64),
//   - blocks become nested maps keyed by the block type; a block type that
//     appears more than once becomes a sequence,
//   - a single block label fills the "type" key, so
//     `with "Core" { count = 4 }` reads as {type: Core, count: 4}.
//
// Expressions are evaluated without variables or functions.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/fluxfield/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load implements config.Loader. An HCL file always holds one document.
func (l *Loader) Load(ctx context.Context, path string) ([]any, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded HCL file.", "path", path)
	return []any{v}, nil
}

// Parse converts HCL source into a generic tree. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}
	out, err := bodyToTree(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}
	return out, nil
}

func bodyToTree(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = native
	}

	grouped := make(map[string][]any)
	var order []string
	for _, block := range body.Blocks {
		if _, clash := body.Attributes[block.Type]; clash {
			return nil, blockError(block, "%q is defined both as an attribute and as a block", block.Type)
		}
		content, err := bodyToTree(block.Body)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", block.Type, err)
		}
		switch len(block.Labels) {
		case 0:
		case 1:
			if _, set := content["type"]; set {
				return nil, blockError(block, "block %q has both a label and a type attribute", block.Type)
			}
			content["type"] = block.Labels[0]
		default:
			return nil, blockError(block, "block %q takes at most one label, got %d", block.Type, len(block.Labels))
		}
		if _, seen := grouped[block.Type]; !seen {
			order = append(order, block.Type)
		}
		grouped[block.Type] = append(grouped[block.Type], content)
	}

	for _, typ := range order {
		blocks := grouped[typ]
		if len(blocks) == 1 {
			out[typ] = blocks[0]
		} else {
			out[typ] = blocks
		}
	}
	return out, nil
}

func blockError(block *hclsyntax.Block, format string, args ...any) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid block",
		Detail:   fmt.Sprintf(format, args...),
		Subject:  block.DefRange().Ptr(),
	}}
}
