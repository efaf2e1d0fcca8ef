package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *repository.SQLiteRepository {
	// Use in-memory database for tests
	repo, err := repository.NewSQLiteRepository(":memory:")
	require.NoError(t, err, "failed to create test repository")

	require.NoError(t, repo.RunMigrations("./migrations"), "failed to run migrations")

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestListProducts_ReturnsSeedAfterMigrations(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 9)
}

func TestListProducts_MatchesSeedProducts(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)

	seed := repository.SeedProducts()
	require.Len(t, products, len(seed))
	for i := range seed {
		assert.Equal(t, seed[i].ID, products[i].ID)
		assert.Equal(t, seed[i].Name, products[i].Name)
		assert.Equal(t, seed[i].Category, products[i].Category)
		assert.True(t, seed[i].Price.Equal(products[i].Price), "price of %s: %s", seed[i].Name, products[i].Price)
	}
}

func TestListProducts_WithContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestGetProduct_Found(t *testing.T) {
	repo := setupTestDB(t)

	p, err := repo.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Lifejacket", p.Name)
	assert.Equal(t, "Watersports", p.Category)
	assert.Equal(t, "48.95", p.Price.StringFixed(2))
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.RunMigrations("./migrations"))

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 9)
}

func TestRunMigrations_BadPath(t *testing.T) {
	repo, err := repository.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	err = repo.RunMigrations("./does-not-exist")
	assert.Error(t, err)
}

func TestSQLiteRepository_FeedsCatalogEngine(t *testing.T) {
	repo := setupTestDB(t)
	engine := catalog.NewEngine(repo)
	ctx := context.Background()

	categories, err := engine.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chess", "Soccer", "Watersports"}, categories)

	chess := "Chess"
	page, err := engine.ListPage(ctx, &chess, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, 4, page.Paging.TotalItems)
	assert.Equal(t, 2, page.Paging.TotalPages())
}

func TestMemoryRepository(t *testing.T) {
	repo := repository.NewMemoryRepository(repository.SeedProducts())
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 9)

	products[0].Name = "changed"
	again, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kayak", again[0].Name)

	p, err := repo.GetProduct(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Bling-Bling King", p.Name)

	_, err = repo.GetProduct(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
