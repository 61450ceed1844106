package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/cli"
	"github.com/vk/fluxfield/internal/specerr"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func TestRun_BuildsSummary(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "node.hcl", `
type = "Node"
with "Socket" {
  count = 2
  with "Core" {
    count = 4
  }
}
`)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, errOut, []string{"-emit", "summary", path})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "instances: 11")
	assert.Contains(t, errOut.String(), "Spec processed.")
}

func TestRun_SpecError(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "bad.yaml", "type: Core\ncount: {min: -1, max: 4}\n")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, errOut, []string{path})

	require.Error(t, err)
	assert.True(t, errors.Is(err, specerr.ErrInvalidCount))
	exitErr := cli.FromError(err)
	assert.Equal(t, cli.ExitFailure, exitErr.Code)
	assert.Contains(t, exitErr.Message, "InvalidCount at count.min")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
	assert.Equal(t, cli.ExitUsage, cli.FromError(err).Code)
}

func TestRun_InvalidPublishSettings(t *testing.T) {
	t.Parallel()

	path := writeSpec(t, "node.yaml", "type: Node\n")

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-publish-url", "gopher://x", path})

	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.FromError(err).Code)
}
