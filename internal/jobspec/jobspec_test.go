package jobspec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/identity"
	"github.com/vk/fluxfield/internal/rspec"
	"github.com/vk/fluxfield/internal/specerr"
	"github.com/vk/fluxfield/internal/task"
)

func sample() map[string]any {
	return map[string]any{
		"version":  1,
		"walltime": "1h",
		"resources": []any{
			map[string]any{
				"type":  "node",
				"count": 4,
				"with": []any{
					map[string]any{
						"type":  "socket",
						"count": map[string]any{"min": 5, "max": 15},
						"with":  []any{map[string]any{"type": "core", "count": 4}},
					},
				},
			},
		},
		"tasks": []any{
			map[string]any{
				"command":      []any{"flux", "start"},
				"slot":         map[string]any{"level": "core"},
				"count":        map[string]any{"total": 15},
				"distribution": "random",
				"attrs":        map[string]any{"stuff": "things"},
			},
		},
	}
}

func TestDecode_Sample(t *testing.T) {
	js, err := Decode(context.Background(), sample(), rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)

	assert.Equal(t, 1, js.Version)
	assert.Equal(t, time.Hour, js.Walltime)
	assert.Equal(t, 4, js.Resources.CountOf("node"))
	assert.Equal(t, 4*15, js.Resources.CountOf("socket"))
	assert.Equal(t, 4*15*4, js.Resources.CountOf("core"))

	require.Len(t, js.Tasks, 1)
	assert.Equal(t, task.Level("core"), js.Tasks[0].Slot())
	assert.Equal(t, task.Total(15), js.Tasks[0].Count())
}

func TestDecode_EncodeRoundTrip(t *testing.T) {
	js, err := Decode(context.Background(), sample(), rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)

	encoded := js.Encode()
	assert.Equal(t, "1h0m0s", encoded["walltime"])

	again, err := Decode(context.Background(), encoded, rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)
	assert.Equal(t, encoded, again.Encode())
	assert.True(t, js.Tasks[0].Equal(again.Tasks[0]))
}

func TestDecode_Errors(t *testing.T) {
	mutate := func(key string, v any) map[string]any {
		m := sample()
		if v == nil {
			delete(m, key)
		} else {
			m[key] = v
		}
		return m
	}

	testCases := []struct {
		name      string
		in        any
		wantErr   error
		wantField string
	}{
		{name: "not a map", in: "job", wantErr: specerr.ErrMalformedSpec},
		{name: "missing resources", in: mutate("resources", nil), wantErr: specerr.ErrMalformedSpec, wantField: "resources"},
		{name: "scalar resources", in: mutate("resources", "node"), wantErr: specerr.ErrMalformedSpec, wantField: "resources"},
		{name: "resource without type", in: mutate("resources", map[string]any{"count": 1}), wantErr: specerr.ErrMalformedSpec, wantField: "resources.type"},
		{name: "unsupported version", in: mutate("version", 2), wantErr: specerr.ErrDecode, wantField: "version"},
		{name: "bad walltime", in: mutate("walltime", "soon"), wantErr: specerr.ErrDecode, wantField: "walltime"},
		{name: "walltime seconds overflow", in: mutate("walltime", int64(10000000000)), wantErr: specerr.ErrDecode, wantField: "walltime"},
		{name: "negative walltime seconds", in: mutate("walltime", -5), wantErr: specerr.ErrDecode, wantField: "walltime"},
		{name: "bad task", in: mutate("tasks", []any{map[string]any{"command": []any{"x"}}}), wantErr: specerr.ErrDecode, wantField: "tasks[0].count"},
		{name: "attrs not a map", in: mutate("attrs", []any{}), wantErr: specerr.ErrDecode, wantField: "attrs"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			js, err := Decode(context.Background(), tc.in)
			require.Error(t, err)
			assert.Nil(t, js)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)

			var se *specerr.Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tc.wantField, se.Field)
		})
	}
}

func TestDecode_WalltimeSeconds(t *testing.T) {
	m := sample()
	m["walltime"] = 90
	js, err := Decode(context.Background(), m, rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, js.Walltime)

	m["walltime"] = maxWalltimeSeconds
	js, err = Decode(context.Background(), m, rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)
	assert.Positive(t, js.Walltime)
}

func TestDecode_WarnsOnUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	m := sample()
	m["tasks"] = map[string]any{
		"command": []any{"app"},
		"slot":    map[string]any{"level": "gpu"},
		"count":   map[string]any{"per_slot": 1},
	}

	js, err := Decode(ctx, m, rspec.WithIdentity(&identity.Sequential{}))
	require.NoError(t, err)
	require.Len(t, js.Tasks, 1)
	assert.Contains(t, buf.String(), "level=gpu")
	assert.Contains(t, buf.String(), "level=WARN")
}
