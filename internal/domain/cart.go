package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Addons are the optional paid services attached to a cart line
type Addons struct {
	QualityInspection    bool `json:"quality_inspection"`
	PackageConsolidation bool `json:"package_consolidation"`
}

// LineItem is one cart entry. ID is the product key: a cart never holds
// two lines for the same product.
type LineItem struct {
	ID        string             `json:"id" validate:"required,max=200"`
	Title     string             `json:"title"`
	UnitPrice decimal.Decimal    `json:"unit_price" validate:"gte=0"`
	Quantity  int                `json:"quantity" validate:"min=1"`
	Image     string             `json:"image,omitempty"`
	Seller    string             `json:"seller,omitempty"`
	Weight    *float64           `json:"weight,omitempty"`
	Variants  []VariantSelection `json:"variants,omitempty"`
	Addons    Addons             `json:"addons"`
	AddedAt   time.Time          `json:"added_at"`
}

// NewLineItem builds a line for product with default add-ons
func NewLineItem(p Product, quantity int, now time.Time) LineItem {
	return LineItem{
		ID:        p.Key,
		Title:     p.Title,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Image:     p.Image,
		Seller:    p.Seller,
		Weight:    p.Weight,
		Variants:  p.Variants,
		AddedAt:   now,
	}
}

// CountUnits returns the badge count of a cart: the sum of all quantities
func CountUnits(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
