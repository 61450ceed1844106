package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineLoader returns one document per non-empty line of the file.
type lineLoader struct {
	exts []string
}

func (l lineLoader) Extensions() []string { return l.exts }

func (l lineLoader) Load(_ context.Context, path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "bad" {
			return nil, errors.New("bad line")
		}
		docs = append(docs, line)
	}
	return docs, nil
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestFormats_LoaderSelection(t *testing.T) {
	f := NewFormats()
	f.RegisterLoader(lineLoader{exts: []string{".yaml", ".YML"}})

	assert.Equal(t, []string{".yaml", ".yml"}, f.Extensions())

	_, err := f.LoaderFor("spec.YAML")
	require.NoError(t, err)

	_, err = f.LoaderFor("spec.toml")
	assert.ErrorContains(t, err, `no loader for ".toml"`)
}

func TestFormats_Emitters(t *testing.T) {
	f := NewFormats()
	f.RegisterEmitter("upper", EmitterFunc(func(v any) ([]byte, error) {
		return []byte(strings.ToUpper(v.(string))), nil
	}))

	e, err := f.Emitter("upper")
	require.NoError(t, err)
	out, err := e.Emit("core")
	require.NoError(t, err)
	assert.Equal(t, "CORE", string(out))

	_, err = f.Emitter("xml")
	assert.ErrorContains(t, err, "supported: upper")
	assert.Equal(t, []string{"upper"}, f.EmitterNames())
}

func TestFormats_LoadPath(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"b.yaml":        "three",
		"a.yaml":        "one\ntwo",
		"nested/c.yaml": "four",
		"ignored.txt":   "nope",
	})
	f := NewFormats()
	f.RegisterLoader(lineLoader{exts: []string{".yaml"}})

	docs, err := f.LoadPath(context.Background(), root)
	require.NoError(t, err)

	var trees []any
	for _, d := range docs {
		trees = append(trees, d.Tree)
	}
	assert.Equal(t, []any{"one", "two", "three", "four"}, trees)
	assert.Equal(t, 1, docs[1].Index)
	assert.Equal(t, filepath.Join(root, "a.yaml"), docs[1].Path)

	single, err := f.LoadPath(context.Background(), filepath.Join(root, "b.yaml"))
	require.NoError(t, err)
	assert.Len(t, single, 1)
}

func TestFormats_LoadPathErrors(t *testing.T) {
	f := NewFormats()
	f.RegisterLoader(lineLoader{exts: []string{".yaml"}})

	_, err := f.LoadPath(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "error accessing path")

	empty := writeFiles(t, map[string]string{"x.txt": "x"})
	_, err = f.LoadPath(context.Background(), empty)
	assert.ErrorContains(t, err, "no spec files")

	broken := writeFiles(t, map[string]string{"x.yaml": "bad"})
	_, err = f.LoadPath(context.Background(), broken)
	assert.ErrorContains(t, err, "bad line")

	other := writeFiles(t, map[string]string{"x.toml": "a"})
	_, err = f.LoadPath(context.Background(), filepath.Join(other, "x.toml"))
	assert.ErrorContains(t, err, "no loader")
}
