package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

// Summary is what the cart views render.
type Summary struct {
	Lines     []domain.CartLine
	Total     decimal.Decimal
	ItemCount int
	LineCount int
}

// sharedLoadTimeout bounds a coalesced load, which outlives the request that started it.
const sharedLoadTimeout = 5 * time.Second

// CartService binds session IDs to carts. Mutations for one session are
// serialized; the store only ever sees whole snapshots.
type CartService struct {
	products ProductReader
	store    session.Store
	calc     cart.Calculator
	logger   *zap.Logger

	locks *keyedMutex
	sfg   singleflight.Group // coalesces concurrent loads of the same session
}

func NewCartService(products ProductReader, store session.Store, calc cart.Calculator, logger *zap.Logger) *CartService {
	return &CartService{
		products: products,
		store:    store,
		calc:     calc,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*Summary, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarize(c)
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*Summary, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d: %w", quantity, domain.ErrInvalidArgument)
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.AddItem(p, quantity)
	})
}

// RemoveItem drops the line for productID. Unknown products are a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Summary, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveLine(domain.Product{ID: productID})
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*Summary, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Error("session delete failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	s.sfg.Forget(sessionID)

	return s.summarize(cart.New(s.calc))
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*Summary, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, err := s.loadDirect(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, c.Lines()); err != nil {
		s.logger.Error("session save failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	s.sfg.Forget(sessionID)

	return s.summarize(c)
}

func (s *CartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		// other callers may be waiting on this load, so one cancelled request must not fail them all
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return s.loadDirect(loadCtx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	// callers sharing a singleflight result each get their own cart
	return cart.Restore(s.calc, v.(*cart.Cart).Lines()), nil
}

func (s *CartService) loadDirect(ctx context.Context, sessionID string) (*cart.Cart, error) {
	start := time.Now()
	lines, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return cart.New(s.calc), nil
	}
	if err != nil {
		s.logger.Error("session load failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("session loaded",
		zap.String("session_id", sessionID),
		zap.Int("lines", len(lines)),
		zap.Duration("took", time.Since(start)),
	)
	return cart.Restore(s.calc, lines), nil
}

func (s *CartService) summarize(c *cart.Cart) (*Summary, error) {
	total, err := c.ComputeTotalValue()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Lines:     c.Lines(),
		Total:     total,
		ItemCount: c.Quantity(),
		LineCount: c.Len(),
	}, nil
}
