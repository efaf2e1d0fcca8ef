package pricing

import (
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceCalculator is the default strategy: unit price times quantity.
type PriceCalculator struct{}

func (PriceCalculator) LineTotal(p domain.Product, quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// DiscountCalculator reduces every line priced by the inner calculator.
// A line never goes below zero.
type DiscountCalculator struct {
	inner cart.Calculator
	kind  DiscountKind
	value decimal.Decimal
}

func NewDiscountCalculator(inner cart.Calculator, kind DiscountKind, value decimal.Decimal) (*DiscountCalculator, error) {
	if inner == nil {
		return nil, fmt.Errorf("discount needs an inner calculator: %w", domain.ErrConfiguration)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("discount cannot be negative: %w", domain.ErrInvalidArgument)
	}

	switch kind {
	case DiscountPercentage:
		if value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("percentage must be 0-100, got %s: %w", value, domain.ErrInvalidArgument)
		}
	case DiscountFixed:
	default:
		return nil, fmt.Errorf("unknown discount kind %q: %w", kind, domain.ErrInvalidArgument)
	}

	return &DiscountCalculator{inner: inner, kind: kind, value: value}, nil
}

func (d *DiscountCalculator) LineTotal(p domain.Product, quantity int) decimal.Decimal {
	total := d.inner.LineTotal(p, quantity)

	var off decimal.Decimal
	if d.kind == DiscountPercentage {
		off = total.Mul(d.value).Div(decimal.NewFromInt(100))
	} else {
		off = d.value
	}

	if off.GreaterThan(total) {
		return decimal.Zero
	}
	return total.Sub(off)
}

// ShoppingCart totals a plain product list, one unit each.
type ShoppingCart struct {
	calc     cart.Calculator
	Products []domain.Product
}

func NewShoppingCart(calc cart.Calculator, products []domain.Product) *ShoppingCart {
	return &ShoppingCart{calc: calc, Products: products}
}

func (s *ShoppingCart) CalculateProductTotal() (decimal.Decimal, error) {
	if s.calc == nil {
		return decimal.Zero, fmt.Errorf("shopping cart has no value calculator: %w", domain.ErrConfiguration)
	}

	total := decimal.Zero
	for _, p := range s.Products {
		total = total.Add(s.calc.LineTotal(p, 1))
	}
	return total, nil
}
