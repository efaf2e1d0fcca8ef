package repository

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedProducts matches the rows inserted by the seed migration.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Kayak", Description: "A boat for one person", Category: "Watersports", Price: decimal.RequireFromString("275.00")},
		{ID: 2, Name: "Lifejacket", Description: "Protective and fashionable", Category: "Watersports", Price: decimal.RequireFromString("48.95")},
		{ID: 3, Name: "Soccer Ball", Description: "FIFA-approved size and weight", Category: "Soccer", Price: decimal.RequireFromString("19.50")},
		{ID: 4, Name: "Corner Flags", Description: "Give your playing field a professional touch", Category: "Soccer", Price: decimal.RequireFromString("34.95")},
		{ID: 5, Name: "Stadium", Description: "Flat-packed 35,000-seat stadium", Category: "Soccer", Price: decimal.RequireFromString("79500.00")},
		{ID: 6, Name: "Thinking Cap", Description: "Improve your brain efficiency by 75%", Category: "Chess", Price: decimal.RequireFromString("16.00")},
		{ID: 7, Name: "Unsteady Chair", Description: "Secretly give your opponent a disadvantage", Category: "Chess", Price: decimal.RequireFromString("29.95")},
		{ID: 8, Name: "Human Chess Board", Description: "A fun game for the family", Category: "Chess", Price: decimal.RequireFromString("75.00")},
		{ID: 9, Name: "Bling-Bling King", Description: "Gold-plated, diamond-studded King", Category: "Chess", Price: decimal.RequireFromString("1200.00")},
	}
}
