package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("session store unavailable")

// BreakerStore trips after consecutive backend failures and fails fast
// until the breaker half-opens again. ErrNotFound does not count as a failure.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]domain.CartLine]
}

type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

func NewBreakerStore(next Store, settings BreakerSettings, logger *zap.Logger) *BreakerStore {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.CartLine](gobreaker.Settings{
		Name:    "session-store",
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

func (b *BreakerStore) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	lines, err := b.cb.Execute(func() ([]domain.CartLine, error) {
		return b.next.Load(ctx, sessionID)
	})
	return lines, translate(err)
}

func (b *BreakerStore) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	_, err := b.cb.Execute(func() ([]domain.CartLine, error) {
		return nil, b.next.Save(ctx, sessionID, lines)
	})
	return translate(err)
}

func (b *BreakerStore) Delete(ctx context.Context, sessionID string) error {
	_, err := b.cb.Execute(func() ([]domain.CartLine, error) {
		return nil, b.next.Delete(ctx, sessionID)
	})
	return translate(err)
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
