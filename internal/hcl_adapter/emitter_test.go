package hcl_adapter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/rspec"
)

func TestEmitter_RoundTrip(t *testing.T) {
	orig, err := Parse([]byte(nodeHCL), "node.hcl")
	require.NoError(t, err)

	d, err := rspec.DecodeDescription(orig)
	require.NoError(t, err)

	out, err := NewEmitter().Emit(d.Encode())
	require.NoError(t, err)

	again, err := Parse(out, "emitted.hcl")
	require.NoError(t, err, "emitted:\n%s", out)

	d2, err := rspec.DecodeDescription(again)
	require.NoError(t, err)
	if diff := cmp.Diff(d.Encode(), d2.Encode()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\nemitted:\n%s", diff, out)
	}
}

func TestEmitter_Layout(t *testing.T) {
	out, err := NewEmitter().Emit(map[string]any{
		"type":  "Socket",
		"count": map[string]any{"min": int64(1), "max": int64(4), "operand": int64(2), "operator": "*"},
		"with":  []any{map[string]any{"type": "Core", "count": int64(4)}},
	})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `with "Core" {`)
	assert.Contains(t, text, `operator = "*"`)
	assert.NotContains(t, text, `type = "Core"`)

	again, err := Parse(out, "layout.hcl")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":  "Socket",
		"count": map[string]any{"min": int64(1), "max": int64(4), "operand": int64(2), "operator": "*"},
		"with":  map[string]any{"type": "Core", "count": int64(4)},
	}, again)
}

func TestEmitter_Errors(t *testing.T) {
	_, err := NewEmitter().Emit([]any{})
	assert.ErrorContains(t, err, "map at the top level")

	_, err = NewEmitter().Emit(map[string]any{"not valid": 1})
	assert.ErrorContains(t, err, "not a valid HCL identifier")

	_, err = NewEmitter().Emit(map[string]any{"x": struct{}{}})
	assert.ErrorContains(t, err, "unsupported value")
}
