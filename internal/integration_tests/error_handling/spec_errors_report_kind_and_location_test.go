package integration_tests

import (
	"testing"

	"github.com/vk/fluxfield/internal/app"
	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/testutil"
)

// Test for: every rejected spec names the failure kind and where it happened
func TestErrorHandling_SpecErrorsReportKindAndLocation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		file      string
		content   string
		wantKind  specerr.Kind
		wantField string
	}{
		{
			name:      "missing type",
			file:      "spec.yaml",
			content:   "count: 2\n",
			wantKind:  specerr.MalformedSpec,
			wantField: "type",
		},
		{
			name:      "negative count below a child",
			file:      "spec.yaml",
			content:   "type: Node\nwith:\n  type: Core\n  count: {min: -1, max: 4}\n",
			wantKind:  specerr.InvalidCount,
			wantField: "with.count.min",
		},
		{
			name:      "unknown operator",
			file:      "spec.hcl",
			content:   "type = \"Node\"\ncount = { min = 1, max = 4, operand = 2, operator = \"/\" }\n",
			wantKind:  specerr.InvalidCount,
			wantField: "count.operator",
		},
		{
			name:      "non numeric count",
			file:      "spec.json",
			content:   `{"type": "Node", "count": "hello"}`,
			wantKind:  specerr.Decode,
			wantField: "count",
		},
		{
			name:      "task with empty command",
			file:      "job.yaml",
			content:   "resources: {type: Core}\ntasks:\n  - command: []\n    slot: {level: Core}\n    count: {per_slot: 1}\n",
			wantKind:  specerr.InvalidTask,
			wantField: "tasks[0].command",
		},
		{
			name:      "second root of a forest",
			file:      "forest.yaml",
			content:   "- type: Node\n- type: GPU\n  with: [{count: 2}]\n",
			wantKind:  specerr.MalformedSpec,
			wantField: "[1].with[0].type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			result := testutil.RunApp(t, app.Config{}, map[string]string{tc.file: tc.content})

			// --- Assert ---
			testutil.AssertSpecError(t, result, tc.wantKind, tc.wantField)
			if result.Output != "" {
				t.Errorf("a rejected spec must not produce output, got:\n%s", result.Output)
			}
		})
	}
}
