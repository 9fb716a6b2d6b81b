package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Set(ctx, "suppliers", []byte(`[{"id":"s1"}]`)))

	got, err := m.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, string(got))

	require.NoError(t, m.Delete(ctx, "suppliers"))
	_, err = m.Get(ctx, "suppliers")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	value := []byte(`{"theme":"dark"}`)
	require.NoError(t, m.Set(ctx, "theme", value))
	value[2] = 'X'

	got, err := m.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(got))
}

func TestGetJSONMissingKeyLeavesDestUntouched(t *testing.T) {
	m := NewMemoryStore()

	dest := []string{"seeded"}
	require.NoError(t, GetJSON(context.Background(), m, "absent", &dest))
	assert.Equal(t, []string{"seeded"}, dest)
}

func TestSetJSONGetJSON(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, SetJSON(ctx, m, "counts", in))

	var out map[string]int
	require.NoError(t, GetJSON(ctx, m, "counts", &out))
	assert.Equal(t, in, out)
}
