package testutil

import (
	"testing"

	"github.com/vk/fluxfield/internal/app"
)

// RunHCLSpecTest runs the application on a single HCL spec with the given
// emit mode and YAML output.
func RunHCLSpecTest(t *testing.T, specHCL, emit string) *HarnessResult {
	t.Helper()

	return RunApp(t, app.Config{Emit: emit, IDs: "sequential"}, map[string]string{
		"spec.hcl": specHCL,
	})
}
