package pricefeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/utils"
)

// Source supplies the latest price of a product. last is the previously
// observed price, which simulated sources move from.
type Source interface {
	Price(ctx context.Context, productKey string, last decimal.Decimal) (decimal.Decimal, error)
}

// RandomWalk simulates a market: every quote moves the previous price of
// the product by at most MaxStep in either direction, never below Floor.
type RandomWalk struct {
	MaxStep float64
	Floor   decimal.Decimal

	mu     sync.Mutex
	last   map[string]decimal.Decimal
	random func() float64
}

// NewRandomWalk creates a random walk with the default step and floor
func NewRandomWalk() *RandomWalk {
	return &RandomWalk{
		MaxStep: DefaultMaxStep,
		Floor:   decimal.RequireFromString(DefaultFloor),
		last:    make(map[string]decimal.Decimal),
		random:  utils.RandomSign,
	}
}

// Price implements Source
func (w *RandomWalk) Price(ctx context.Context, productKey string, last decimal.Decimal) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	base := last
	if prev, ok := w.last[productKey]; ok {
		base = prev
	}
	if !base.IsPositive() {
		base = w.Floor
	}

	factor := decimal.NewFromFloat(1 + w.MaxStep*w.random())
	next := base.Mul(factor).Round(PricePlaces)
	if next.LessThan(w.Floor) {
		next = w.Floor
	}
	w.last[productKey] = next
	return next, nil
}

// Static serves fixed prices. Unknown products report their last price.
type Static struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStatic creates a static source from a price map
func NewStatic(prices map[string]decimal.Decimal) *Static {
	s := &Static{prices: make(map[string]decimal.Decimal, len(prices))}
	for k, v := range prices {
		s.prices[k] = v
	}
	return s
}

// Set changes the price of one product
func (s *Static) Set(productKey string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[productKey] = price
}

// Price implements Source
func (s *Static) Price(_ context.Context, productKey string, last decimal.Decimal) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prices[productKey]; ok {
		return p, nil
	}
	if last.IsPositive() {
		return last, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrNoQuote, productKey)
}
