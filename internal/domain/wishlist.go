package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one observation in a wishlist entry's price history
type PricePoint struct {
	Price decimal.Decimal `json:"price"`
	At    time.Time       `json:"at"`
}

// WishlistEntry is a saved product. ID is generated per save event;
// ProductKey is the de-duplication key.
type WishlistEntry struct {
	ID            string           `json:"id" validate:"required"`
	ProductKey    string           `json:"product_key" validate:"required"`
	Title         string           `json:"title"`
	Price         decimal.Decimal  `json:"price" validate:"gte=0"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image,omitempty"`
	Seller        string           `json:"seller,omitempty"`
	Rating        int              `json:"rating"`
	AddedAt       time.Time        `json:"added_at"`
	PriceHistory  []PricePoint     `json:"price_history"`
}

// DiscountPercent returns how far below the original price the entry is,
// rounded to a whole percent. Zero when there is no discount.
func (e WishlistEntry) DiscountPercent() int {
	if e.OriginalPrice == nil || !e.OriginalPrice.IsPositive() || !e.Price.LessThan(*e.OriginalPrice) {
		return 0
	}
	off := e.OriginalPrice.Sub(e.Price).Div(*e.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}
