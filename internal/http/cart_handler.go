package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartManager interface {
	GetCart(ctx context.Context, sessionID string) (*service.Summary, error)
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*service.Summary, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*service.Summary, error)
	ClearCart(ctx context.Context, sessionID string) (*service.Summary, error)
}

type CartHandler struct {
	carts  CartManager
	logger *zap.Logger
}

func NewCartHandler(carts CartManager, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	Lines     []CartLineResponse `json:"lines"`
	Total     string             `json:"total"`
	ItemCount int                `json:"item_count"`
}

type CartSummaryResponse struct {
	ItemCount int    `json:"item_count"`
	LineCount int    `json:"line_count"`
	Total     string `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.GetCart(r.Context(), sessionID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(summary))
}

func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.GetCart(r.Context(), sessionID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, &CartSummaryResponse{
		ItemCount: summary.ItemCount,
		LineCount: summary.LineCount,
		Total:     summary.Total.StringFixed(2),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := h.carts.AddItem(r.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(summary))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(summary))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	summary, err := h.carts.ClearCart(r.Context(), sessionID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(summary))
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return "", false
	}
	return sessionID, true
}

func toCartResponse(s *service.Summary) *CartResponse {
	lines := make([]CartLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = CartLineResponse{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price.StringFixed(2),
			Quantity:  l.Quantity,
		}
	}
	return &CartResponse{
		Lines:     lines,
		Total:     s.Total.StringFixed(2),
		ItemCount: s.ItemCount,
	}
}
