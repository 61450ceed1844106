package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/specerr"
)

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"spec.yaml"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "spec.yaml", cfg.SpecPath)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "canonical", cfg.Emit)
	assert.Equal(t, "uuid", cfg.IDs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Publish.URL)
	assert.Equal(t, 10*time.Second, cfg.Publish.Timeout)
}

func TestParse_Flags(t *testing.T) {
	cfg, exit, err := Parse([]string{
		"-s", "specs/",
		"-output", "JSON",
		"-emit", "graph",
		"-ids", "sequential",
		"-max-instances", "1000",
		"-log-level", "debug",
		"-log-format", "json",
		"-publish-url", "http://localhost:3000",
		"-publish-ack-event", "ack",
		"-publish-timeout", "2s",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "specs/", cfg.SpecPath)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "graph", cfg.Emit)
	assert.Equal(t, "sequential", cfg.IDs)
	assert.Equal(t, 1000, cfg.MaxInstances)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://localhost:3000", cfg.Publish.URL)
	assert.Equal(t, "ack", cfg.Publish.AckEvent)
	assert.Equal(t, "resources", cfg.Publish.Event)
	assert.Equal(t, 2*time.Second, cfg.Publish.Timeout)
}

func TestParse_SpecFlagWinsOverPositional(t *testing.T) {
	cfg, _, err := Parse([]string{"-spec", "a.hcl", "b.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "a.hcl", cfg.SpecPath)
}

func TestParse_HelpAndNoArgs(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {}} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(args, out)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"-nope"}, wantMsg: "flag provided but not defined"},
		{name: "log format", args: []string{"-log-format", "xml", "x"}, wantMsg: "invalid log-format"},
		{name: "log level", args: []string{"-log-level", "loud", "x"}, wantMsg: "invalid log-level"},
		{name: "output", args: []string{"-output", "toml", "x"}, wantMsg: "invalid output format"},
		{name: "emit", args: []string{"-emit", "dot", "x"}, wantMsg: "invalid emit mode"},
		{name: "ids", args: []string{"-ids", "random", "x"}, wantMsg: "invalid id generator"},
		{name: "two paths", args: []string{"a", "b"}, wantMsg: "expected a single SPEC_PATH"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	usage := &ExitError{Code: ExitUsage, Message: "bad"}
	assert.Same(t, usage, FromError(fmt.Errorf("wrapped: %w", usage)))

	spec := fmt.Errorf("spec.yaml: %w", specerr.New(specerr.MalformedSpec, "with[0].type", "is required"))
	got := FromError(spec)
	assert.Equal(t, ExitFailure, got.Code)
	assert.Contains(t, got.Message, "MalformedSpec at with[0].type")
	assert.Contains(t, got.Message, "spec.yaml")

	root := FromError(specerr.New(specerr.Decode, "", "not a map"))
	assert.Contains(t, root.Message, "DecodeError at <root>")

	plain := FromError(errors.New("disk on fire"))
	assert.Equal(t, ExitFailure, plain.Code)
	assert.Equal(t, "disk on fire", plain.Message)
}
