package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/specerr"
)

// AssertLogged checks that the captured log output contains every fragment.
func AssertLogged(t *testing.T, result *HarnessResult, fragments ...string) {
	t.Helper()

	for _, f := range fragments {
		require.True(t,
			strings.Contains(result.LogOutput, f),
			"expected log output to contain %q", f,
		)
	}
}

// AssertSpecError checks that the run failed with an error of the given
// kind located at field.
func AssertSpecError(t *testing.T, result *HarnessResult, kind specerr.Kind, field string) {
	t.Helper()

	require.Error(t, result.Err, "expected the run to fail")
	var se *specerr.Error
	require.True(t, errors.As(result.Err, &se), "expected a spec error, got %v", result.Err)
	require.Equal(t, kind, se.Kind, "unexpected error kind: %v", result.Err)
	require.Equal(t, field, se.Field, "unexpected error location: %v", result.Err)
}
