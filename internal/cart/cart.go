package cart

import (
	"fmt"
	"math"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator prices a single cart line.
// Consumers define this interface, pricing strategies implement it.
type Calculator interface {
	LineTotal(p domain.Product, quantity int) decimal.Decimal
}

// Cart accumulates line items for one session. Lines are keyed by product ID
// and kept in insertion order.
type Cart struct {
	mu    sync.RWMutex
	calc  Calculator
	lines []domain.CartLine
}

func New(calc Calculator) *Cart {
	return &Cart{calc: calc}
}

// Restore rebuilds a cart from a stored snapshot. Duplicate products are
// merged; non-positive quantities and merges that would overflow are skipped.
func Restore(calc Calculator, lines []domain.CartLine) *Cart {
	c := New(calc)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		_ = c.merge(l.Product, l.Quantity)
	}
	return c
}

func (c *Cart) AddItem(p domain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d: %w", quantity, domain.ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merge(p, quantity)
}

// merge expects c.mu to be held (or the cart to be unshared).
func (c *Cart) merge(p domain.Product, quantity int) error {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Quantity > math.MaxInt-quantity {
				return fmt.Errorf("quantity of product %d would exceed %d: %w", p.ID, math.MaxInt, domain.ErrInvalidArgument)
			}
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, domain.CartLine{Product: p, Quantity: quantity})
	return nil
}

// RemoveLine drops the line for p. Absent products are ignored.
func (c *Cart) RemoveLine(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.lines {
		if l.Product.ID == p.ID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) ComputeTotalValue() (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.calc == nil {
		return decimal.Zero, fmt.Errorf("cart has no value calculator: %w", domain.ErrConfiguration)
	}

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(c.calc.LineTotal(l.Product, l.Quantity))
	}
	return total, nil
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Quantity is the number of items across all lines, capped at math.MaxInt.
func (c *Cart) Quantity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, l := range c.lines {
		if n > math.MaxInt-l.Quantity {
			return math.MaxInt
		}
		n += l.Quantity
	}
	return n
}
