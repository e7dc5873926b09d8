package domain

import "github.com/shopspring/decimal"

// Product is an immutable catalog record. Price is in major units (GBP).
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       ImageRef        `json:"image"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	InStock     bool            `json:"inStock"`
	Weight      string          `json:"weight,omitempty"`
}
