package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vk/fluxfield/internal/cli"
)

// Test for: displays help
func TestCLI_DisplaysHelp_WhenNoSpecPathIsProvided(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Capture what the parser prints to the console.
	outW := &bytes.Buffer{}

	// --- Act ---
	// Simulate the user running the program with no arguments.
	appConfig, shouldExit, err := cli.Parse([]string{}, outW)

	// --- Assert ---
	if err != nil {
		t.Fatalf("cli.Parse() returned an unexpected error: %v", err)
	}
	if !shouldExit {
		t.Fatal("cli.Parse() should have indicated an exit, but it did not")
	}
	for _, want := range []string{"Usage:", "SPEC_PATH", "-emit", "-publish-url"} {
		if !strings.Contains(outW.String(), want) {
			t.Errorf("expected output to contain %q, but got:\n%s", want, outW.String())
		}
	}
	if appConfig != nil {
		t.Errorf("expected a nil Config when displaying help, but got a non-nil config")
	}
}
