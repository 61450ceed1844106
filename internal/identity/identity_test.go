package identity

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_GeneratesDistinctV4(t *testing.T) {
	var g UUID

	a, err := g.NewIdentifier()
	require.NoError(t, err)
	b, err := g.NewIdentifier()
	require.NoError(t, err)

	require.Len(t, a, 16)
	assert.NotEqual(t, a, b)

	u, err := uuid.FromBytes(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), u.Version())
}

func TestSequential_IsDeterministic(t *testing.T) {
	g := &Sequential{Start: 5}

	first, err := g.NewIdentifier()
	require.NoError(t, err)
	second, err := g.NewIdentifier()
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-0000-0000-000000000005", uuid.Must(uuid.FromBytes(first)).String())
	assert.Equal(t, "00000000-0000-0000-0000-000000000006", uuid.Must(uuid.FromBytes(second)).String())
}

func TestSequential_ConcurrentUse(t *testing.T) {
	g := &Sequential{}
	const workers, per = 8, 50

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				id, err := g.NewIdentifier()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				seen[string(id)] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*per)
}

func TestByName(t *testing.T) {
	g, err := ByName("uuid")
	require.NoError(t, err)
	assert.IsType(t, UUID{}, g)

	g, err = ByName("sequential")
	require.NoError(t, err)
	assert.IsType(t, &Sequential{}, g)

	_, err = ByName("snowflake")
	assert.ErrorContains(t, err, "snowflake")
}
