package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// ProductSource is the read side of the product repository.
// No ordering, filtering or paging is expected from it.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Page is one paging window of the filtered catalog.
type Page struct {
	Products        []domain.Product
	Paging          domain.PagingInfo
	CurrentCategory *string
}

// Engine answers catalog queries over a ProductSource. It holds no state of
// its own and never mutates what the source returns.
type Engine struct {
	source ProductSource
}

func NewEngine(source ProductSource) *Engine {
	return &Engine{source: source}
}

// ListPage filters by category (nil means all products) and returns the
// requested page. Pages past the end are empty, not an error.
func (e *Engine) ListPage(ctx context.Context, category *string, page, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d: %w", pageSize, domain.ErrInvalidArgument)
	}
	if page <= 0 {
		return nil, fmt.Errorf("page number must be positive, got %d: %w", page, domain.ErrInvalidArgument)
	}

	products, err := e.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	filtered := filterByCategory(products, category)

	paging := domain.PagingInfo{
		CurrentPage:  page,
		ItemsPerPage: pageSize,
		TotalItems:   len(filtered),
	}

	// compare page numbers before multiplying, large pages overflow start
	window := []domain.Product{}
	if page <= paging.TotalPages() {
		start := (page - 1) * pageSize
		end := start + min(pageSize, len(filtered)-start)
		window = make([]domain.Product, end-start)
		copy(window, filtered[start:end])
	}

	return &Page{
		Products:        window,
		Paging:          paging,
		CurrentCategory: category,
	}, nil
}

// ListProducts returns the whole filtered catalog without paging.
func (e *Engine) ListProducts(ctx context.Context, category *string) ([]domain.Product, error) {
	products, err := e.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	filtered := filterByCategory(products, category)
	out := make([]domain.Product, len(filtered))
	copy(out, filtered)
	return out, nil
}

// ListCategories returns every distinct category of the unfiltered catalog
// in ascending order.
func (e *Engine) ListCategories(ctx context.Context) ([]string, error) {
	products, err := e.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}

	sort.Strings(categories)
	return categories, nil
}

// CategoryCounts returns the number of products per category.
func (e *Engine) CategoryCounts(ctx context.Context) (map[string]int, error) {
	products, err := e.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	return counts, nil
}

func filterByCategory(products []domain.Product, category *string) []domain.Product {
	if category == nil {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == *category {
			out = append(out, p)
		}
	}
	return out
}
