package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	m       sync.RWMutex
	carts   map[string][]domain.CartLine
	loadErr error
	saveErr error
	delErr  error
	loads   int
}

func newMockStore() *mockStore {
	return &mockStore{carts: make(map[string][]domain.CartLine)}
}

func (m *mockStore) Load(_ context.Context, id string) ([]domain.CartLine, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	lines, ok := m.carts[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return lines, nil
}

func (m *mockStore) Save(_ context.Context, id string, lines []domain.CartLine) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[id] = lines
	return nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.carts, id)
	return nil
}

func (m *mockStore) get(id string) []domain.CartLine {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[id]
}

func newSUT(store session.Store) *CartService {
	products := repository.NewMemoryRepository([]domain.Product{
		{ID: 1, Name: "P1", Category: "Cat1", Price: decimal.NewFromInt(100)},
		{ID: 2, Name: "P2", Category: "Cat2", Price: decimal.NewFromInt(50)},
	})
	return NewCartService(products, store, pricing.PriceCalculator{}, zap.NewNop())
}

func TestGetCart_EmptyForNewSession(t *testing.T) {
	sut := newSUT(newMockStore())

	summary, err := sut.GetCart(context.Background(), "new")
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.True(t, summary.Total.IsZero())
	assert.Equal(t, 0, summary.ItemCount)
}

func TestGetCart_StoreError(t *testing.T) {
	store := newMockStore()
	store.loadErr = fmt.Errorf("redis get failed: boom")
	sut := newSUT(store)

	summary, err := sut.GetCart(context.Background(), "s")
	require.ErrorContains(t, err, "boom")
	assert.Nil(t, summary)
}

func TestAddItem_PersistsAndTotals(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s", 1, 1)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "s", 2, 1)
	require.NoError(t, err)
	summary, err := sut.AddItem(ctx, "s", 1, 3)
	require.NoError(t, err)

	require.Len(t, summary.Lines, 2)
	assert.Equal(t, 4, summary.Lines[0].Quantity)
	assert.Equal(t, 5, summary.ItemCount)
	assert.Equal(t, 2, summary.LineCount)
	assert.True(t, decimal.NewFromInt(450).Equal(summary.Total), "got %s", summary.Total)

	stored := store.get("s")
	require.Len(t, stored, 2)
	assert.Equal(t, int64(1), stored[0].Product.ID)
	assert.Equal(t, 4, stored[0].Quantity)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)

	_, err := sut.AddItem(context.Background(), "s", 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Nil(t, store.get("s"))
}

func TestAddItem_QuantityOverflow(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s", 1, math.MaxInt)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "s", 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	stored := store.get("s")
	require.Len(t, stored, 1)
	assert.Equal(t, math.MaxInt, stored[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	sut := newSUT(newMockStore())

	_, err := sut.AddItem(context.Background(), "s", 99, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAddItem_SaveError(t *testing.T) {
	store := newMockStore()
	store.saveErr = fmt.Errorf("redis set failed: boom")
	sut := newSUT(store)

	_, err := sut.AddItem(context.Background(), "s", 1, 1)
	require.ErrorContains(t, err, "boom")
}

func TestRemoveItem(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s", 1, 1)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "s", 2, 2)
	require.NoError(t, err)

	summary, err := sut.RemoveItem(ctx, "s", 1)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, int64(2), summary.Lines[0].Product.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.Total))

	// absent product leaves the cart unchanged
	summary, err = sut.RemoveItem(ctx, "s", 42)
	require.NoError(t, err)
	assert.Len(t, summary.Lines, 1)
}

func TestClearCart(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s", 1, 1)
	require.NoError(t, err)

	summary, err := sut.ClearCart(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Nil(t, store.get("s"))

	summary, err = sut.AddItem(ctx, "s", 2, 1)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 1, summary.Lines[0].Quantity)
}

func TestClearCart_StoreError(t *testing.T) {
	store := newMockStore()
	store.delErr = fmt.Errorf("redis delete failed: boom")
	sut := newSUT(store)

	_, err := sut.ClearCart(context.Background(), "s")
	require.ErrorContains(t, err, "boom")
}

func TestSessionsAreIsolated(t *testing.T) {
	sut := newSUT(newMockStore())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "alice", 1, 2)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "bob", 2, 1)
	require.NoError(t, err)

	alice, err := sut.GetCart(ctx, "alice")
	require.NoError(t, err)
	bob, err := sut.GetCart(ctx, "bob")
	require.NoError(t, err)

	require.Len(t, alice.Lines, 1)
	require.Len(t, bob.Lines, 1)
	assert.Equal(t, int64(1), alice.Lines[0].Product.ID)
	assert.Equal(t, int64(2), bob.Lines[0].Product.ID)
}

func TestAddItem_ConcurrentRequestsForSameSession(t *testing.T) {
	store := newMockStore()
	sut := newSUT(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sut.AddItem(ctx, "shared", 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	summary, err := sut.GetCart(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 20, summary.Lines[0].Quantity)
	assert.Equal(t, 0, sut.locks.size(), "session locks must be released")
}

func TestGetCart_WithRealMemoryStore(t *testing.T) {
	sut := newSUT(session.NewMemoryStore())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s", 2, 3)
	require.NoError(t, err)

	summary, err := sut.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.Total))
}

// ctxStore fails loads whose context is already done.
type ctxStore struct {
	*mockStore
}

func (c ctxStore) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.mockStore.Load(ctx, id)
}

func TestGetCart_SharedLoadIgnoresCallerCancellation(t *testing.T) {
	store := ctxStore{newMockStore()}
	store.carts["s"] = []domain.CartLine{{Product: domain.Product{ID: 1, Price: decimal.NewFromInt(100)}, Quantity: 2}}
	sut := newSUT(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := sut.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ItemCount)
	assert.True(t, decimal.NewFromInt(200).Equal(summary.Total), "got %s", summary.Total)
}
