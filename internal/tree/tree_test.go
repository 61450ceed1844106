package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fluxfield/internal/specerr"
)

func TestInt64(t *testing.T) {
	testCases := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{name: "int", in: 4, want: 4},
		{name: "int64", in: int64(-7), want: -7},
		{name: "uint8", in: uint8(200), want: 200},
		{name: "integral float", in: float64(15), want: 15},
		{name: "numeric string", in: "15", want: 15},
		{name: "negative numeric string", in: "-15", want: -15},
		{name: "padded numeric string", in: " 3 ", want: 3},
		{name: "fractional float", in: 1.5, wantErr: true},
		{name: "word", in: "hello", wantErr: true},
		{name: "bool", in: true, wantErr: true},
		{name: "map", in: map[string]any{}, wantErr: true},
		{name: "nil", in: nil, wantErr: true},
		{name: "uint64 overflow", in: uint64(1 << 63), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Int64(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, specerr.ErrDecode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"type": "Node",
		"with": []map[string]any{
			{"type": "Socket", "attrs": map[any]any{"vendor": "amd", 1: true}},
		},
		"tags": []string{"a", "b"},
	}

	got, err := Normalize(in)
	require.NoError(t, err)

	want := map[string]any{
		"type": "Node",
		"with": []any{
			map[string]any{"type": "Socket", "attrs": map[string]any{"vendor": "amd", "1": true}},
		},
		"tags": []any{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_RejectsNonScalarKeys(t *testing.T) {
	_, err := Normalize(map[any]any{
		"ok": map[any]any{[2]int{1, 2}: "x"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, specerr.ErrDecode))
	assert.Contains(t, err.Error(), `key "ok"`)
}

func TestStringsAndStringMap(t *testing.T) {
	got, err := Strings([]any{"srun", 4, true})
	require.NoError(t, err)
	assert.Equal(t, []string{"srun", "4", "true"}, got)

	_, err = Strings([]any{"ok", []any{"nested"}})
	require.Error(t, err)
	var se *specerr.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "[1]", se.Field)

	m, err := StringMap(map[string]any{"mem": 15000, "ratio": 0.5})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mem": "15000", "ratio": "0.5"}, m)

	_, err = StringMap([]any{})
	assert.True(t, errors.Is(err, specerr.ErrDecode))
}

func TestLookup_TreatsNullAsAbsent(t *testing.T) {
	m := Map{"count": nil, "type": "Core"}

	_, ok := Lookup(m, "count")
	assert.False(t, ok)
	_, ok = Lookup(m, "missing")
	assert.False(t, ok)
	v, ok := Lookup(m, "type")
	assert.True(t, ok)
	assert.Equal(t, "Core", v)
}

func TestBool(t *testing.T) {
	b, err := Bool("true")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Bool(1)
	assert.True(t, errors.Is(err, specerr.ErrDecode))
}

func TestClone_IsDeep(t *testing.T) {
	orig := Map{"with": Seq{Map{"type": "Core"}}}
	cp := Clone(orig).(Map)

	cp["with"].(Seq)[0].(Map)["type"] = "Socket"

	assert.Equal(t, "Core", orig["with"].(Seq)[0].(Map)["type"])
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "null", Describe(nil))
	assert.Equal(t, "map", Describe(Map{}))
	assert.Equal(t, "sequence", Describe(Seq{}))
	assert.Equal(t, `string "x"`, Describe("x"))
	assert.Equal(t, "integer", Describe(3))
	assert.Equal(t, "number", Describe(2.5))
	assert.Equal(t, []string{"a", "b"}, Keys(Map{"b": 1, "a": 2}))
}
