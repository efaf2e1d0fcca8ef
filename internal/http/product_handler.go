package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogQuerier interface {
	ListPage(ctx context.Context, category *string, page, pageSize int) (*catalog.Page, error)
	ListProducts(ctx context.Context, category *string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	CategoryCounts(ctx context.Context) (map[string]int, error)
}

type ProductHandler struct {
	catalog  CatalogQuerier
	calc     cart.Calculator
	pageSize int
	logger   *zap.Logger
}

func NewProductHandler(catalog CatalogQuerier, calc cart.Calculator, pageSize int, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		calc:     calc,
		pageSize: pageSize,
		logger:   logger,
	}
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
}

type PagingResponse struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
}

type ProductsResponse struct {
	Products        []ProductResponse `json:"products"`
	Paging          PagingResponse    `json:"paging"`
	CurrentCategory *string           `json:"current_category"`
	PageLinks       string            `json:"page_links"`
}

type CategoriesResponse struct {
	Categories       []string       `json:"categories"`
	Counts           map[string]int `json:"counts"`
	SelectedCategory string         `json:"selected_category,omitempty"`
}

type CatalogTotalResponse struct {
	Category *string `json:"category"`
	Products int     `json:"products"`
	Total    string  `json:"total"`
}

// List serves the product list. The category comes from the path or the
// "category" query parameter; the page from the path or the "page" query.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		category = r.URL.Query().Get("category")
	}
	var filter *string
	if category != "" {
		filter = &category
	}

	pageStr := chi.URLParam(r, "page")
	if pageStr == "" {
		pageStr = r.URL.Query().Get("page")
	}
	page := 1
	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_argument", "page must be an integer")
			return
		}
		page = n
	}

	res, err := h.catalog.ListPage(r.Context(), filter, page, h.pageSize)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	products := make([]ProductResponse, len(res.Products))
	for i, p := range res.Products {
		products[i] = toProductResponse(p)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{
		Products: products,
		Paging: PagingResponse{
			CurrentPage:  res.Paging.CurrentPage,
			ItemsPerPage: res.Paging.ItemsPerPage,
			TotalItems:   res.Paging.TotalItems,
			TotalPages:   res.Paging.TotalPages(),
		},
		CurrentCategory: res.CurrentCategory,
		PageLinks:       PageLinks(res.Paging, pageURL(filter)),
	})
}

// Categories serves the navigation menu.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	counts, err := h.catalog.CategoryCounts(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, &CategoriesResponse{
		Categories:       categories,
		Counts:           counts,
		SelectedCategory: r.URL.Query().Get("category"),
	})
}

// Total prices one unit of every product, optionally within one category,
// with the configured calculator.
func (h *ProductHandler) Total(w http.ResponseWriter, r *http.Request) {
	var filter *string
	if category := r.URL.Query().Get("category"); category != "" {
		filter = &category
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	total, err := pricing.NewShoppingCart(h.calc, products).CalculateProductTotal()
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, &CatalogTotalResponse{
		Category: filter,
		Products: len(products),
		Total:    total.StringFixed(2),
	})
}

func pageURL(category *string) func(int) string {
	if category == nil {
		return func(page int) string {
			return fmt.Sprintf("/api/v1/products/page/%d", page)
		}
	}
	escaped := url.PathEscape(*category)
	return func(page int) string {
		return fmt.Sprintf("/api/v1/products/%s/page/%d", escaped, page)
	}
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
	}
}
