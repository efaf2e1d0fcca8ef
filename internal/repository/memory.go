package repository

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// MemoryRepository serves a fixed product slice.
type MemoryRepository struct {
	products []domain.Product
}

func NewMemoryRepository(products []domain.Product) *MemoryRepository {
	cp := make([]domain.Product, len(products))
	copy(cp, products)
	return &MemoryRepository{products: cp}
}

func (m *MemoryRepository) ListProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MemoryRepository) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
}
