package domain

import "github.com/shopspring/decimal"

// Product is the catalog snapshot a UI action hands to a ledger.
// Ledgers copy the fields they need; they never keep a reference to it.
type Product struct {
	Key           string             `json:"key" validate:"required,max=200"`
	Title         string             `json:"title" validate:"required,max=500"`
	Price         decimal.Decimal    `json:"price" validate:"gte=0"`
	OriginalPrice *decimal.Decimal   `json:"original_price,omitempty"`
	Image         string             `json:"image,omitempty"`
	Seller        string             `json:"seller,omitempty"`
	Weight        *float64           `json:"weight,omitempty"`
	Rating        int                `json:"rating,omitempty"`
	Variants      []VariantSelection `json:"variants,omitempty" validate:"dive"`
}

// VariantSelection is one chosen option of a product variant (size, colour, ...).
// PriceAdjustment is added to the unit price; it may be negative.
type VariantSelection struct {
	Name            string          `json:"name" validate:"required"`
	Option          string          `json:"option" validate:"required"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}
