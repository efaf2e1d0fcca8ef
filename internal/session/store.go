package session

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Store keeps cart snapshots keyed by session ID.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNotFound = errors.New("session not found")
