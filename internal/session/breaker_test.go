package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *failingStore) call() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *failingStore) Load(context.Context, string) ([]domain.CartLine, error) {
	return nil, f.call()
}

func (f *failingStore) Save(context.Context, string, []domain.CartLine) error {
	return f.call()
}

func (f *failingStore) Delete(context.Context, string) error {
	return f.call()
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	sut := NewBreakerStore(NewMemoryStore(), BreakerSettings{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, sut.Save(ctx, "s", sampleLines()))
	lines, err := sut.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	require.NoError(t, sut.Delete(ctx, "s"))
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	sut := NewBreakerStore(NewMemoryStore(), BreakerSettings{MaxFailures: 1}, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := sut.Load(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, sut.State())
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	backend := &failingStore{err: errors.New("redis get failed: connection refused")}
	sut := NewBreakerStore(backend, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())
	ctx := context.Background()

	_, err := sut.Load(ctx, "s")
	require.ErrorContains(t, err, "connection refused")
	_, err = sut.Load(ctx, "s")
	require.ErrorContains(t, err, "connection refused")

	assert.Equal(t, gobreaker.StateOpen, sut.State())

	err = sut.Save(ctx, "s", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, backend.calls, "open breaker must not reach the backend")
}
