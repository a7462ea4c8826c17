package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of the target price an alert watches
type Direction string

const (
	DirectionBelow Direction = "below"
	DirectionAbove Direction = "above"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == DirectionBelow || d == DirectionAbove
}

// PriceAlert is a user-defined watch on one product's price.
// Once TriggeredAt is set the alert is inactive until the user re-arms it.
type PriceAlert struct {
	ID           string          `json:"id" validate:"required"`
	ProductKey   string          `json:"product_key" validate:"required"`
	Title        string          `json:"title"`
	Image        string          `json:"image,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	TargetPrice  decimal.Decimal `json:"target_price" validate:"gt=0"`
	Direction    Direction       `json:"direction" validate:"oneof=below above"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	TriggeredAt  *time.Time      `json:"triggered_at,omitempty"`
}

// IsArmed reports whether the alert takes part in automatic evaluation
func (a PriceAlert) IsArmed() bool {
	return a.Active && a.TriggeredAt == nil
}
