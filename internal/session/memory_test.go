package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)

	lines := sampleLines()
	require.NoError(t, store.Save(ctx, "s", lines))

	// the store keeps its own copy
	lines[0].Quantity = 42

	got, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].Quantity)

	require.NoError(t, store.Delete(ctx, "s"))
	_, err = store.Load(ctx, "s")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", sampleLines()))
	require.NoError(t, store.Save(ctx, "b", sampleLines()[:1]))

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	b, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Len(t, b, 1)
}
