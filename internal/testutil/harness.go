// Package testutil holds helpers shared by the application and integration
// tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files (relative path to content) under a fresh
// temporary directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp writes files to a temporary directory, points cfg.SpecPath at it
// (or at the single file when only one is given and SpecPath is empty) and
// runs the application with debug logging. Set FLUXFIELD_TEST_LOGS=true to
// print the captured logs.
func RunApp(t *testing.T, cfg app.Config, files map[string]string, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, cfg, files, opts...)
}

// RunAppWithContext is RunApp with a caller-provided context.
func RunAppWithContext(ctx context.Context, t *testing.T, cfg app.Config, files map[string]string, opts ...app.Option) *HarnessResult {
	t.Helper()

	root := WriteFiles(t, files)
	switch {
	case cfg.SpecPath != "":
		cfg.SpecPath = filepath.Join(root, cfg.SpecPath)
	case len(files) == 1:
		for name := range files {
			cfg.SpecPath = filepath.Join(root, name)
		}
	default:
		cfg.SpecPath = root
	}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	defer func() {
		if os.Getenv("FLUXFIELD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	}()

	appCfg, err := app.NewConfig(cfg)
	if err != nil {
		return &HarnessResult{Err: err}
	}
	testApp, err := app.NewApp(out, logs, appCfg, opts...)
	if err != nil {
		return &HarnessResult{LogOutput: logs.String(), Err: err}
	}

	runErr := testApp.Run(ctx)
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}
