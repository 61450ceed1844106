package yaml_adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/task"
)

func TestYAMLEmitter_RoundTrip(t *testing.T) {
	tk, err := task.New([]string{"app", "verbose"}, task.Level("Core"), task.Total(8), "scatter", map[string]string{"k": "v"})
	require.NoError(t, err)

	out, err := YAMLEmitter{}.Emit(tk.Encode())
	require.NoError(t, err)

	want := `attrs:
  k: v
command:
  - app
  - verbose
count:
  total: 8
distribution: scatter
slot:
  level: Core
`
	assert.Equal(t, want, string(out))

	docs, err := Parse(out)
	require.NoError(t, err)
	again, err := task.Decode(docs[0])
	require.NoError(t, err)
	assert.True(t, tk.Equal(again))
}

func TestJSONEmitter(t *testing.T) {
	out, err := JSONEmitter{}.Emit(map[string]any{"type": "Core", "count": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"count\": 4,\n  \"type\": \"Core\"\n}\n", string(out))

	docs, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "Core", "count": 4}, docs[0])
}
