package worker

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/alerts"
	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/logger"
	"github.com/osse101/storefront/internal/wishlist"
)

// PriceCheckJob observes the prices of everything one user watches. Each
// product is quoted once per run, so an alert and a wishlist entry for the
// same product see the same price.
type PriceCheckJob struct {
	UserID   string
	Alerts   alerts.Service
	Wishlist wishlist.Service
	Source   alerts.PriceSource
}

// quotes is the per-run price snapshot
type quotes map[string]decimal.Decimal

func (q quotes) Price(_ context.Context, productKey string, _ decimal.Decimal) (decimal.Decimal, error) {
	p, ok := q[productKey]
	if !ok {
		return decimal.Zero, fmt.Errorf("no quote for %s", productKey)
	}
	return p, nil
}

// Process implements Job
func (j *PriceCheckJob) Process(ctx context.Context) error {
	ctx = auth.WithUser(ctx, j.UserID)
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPriceCheckStarted)

	snapshot := quotes{}
	quote := func(key string, last decimal.Decimal) {
		if _, done := snapshot[key]; done {
			return
		}
		price, err := j.Source.Price(ctx, key, last)
		if err != nil {
			log.Warn(LogMsgQuoteFailed, "product_key", key, "error", err)
			return
		}
		snapshot[key] = price
	}

	for _, a := range j.Alerts.List(ctx) {
		if a.IsArmed() {
			quote(a.ProductKey, a.CurrentPrice)
		}
	}
	entries := j.Wishlist.List(ctx, wishlist.Query{})
	for _, e := range entries {
		quote(e.ProductKey, e.Price)
	}

	triggered, err := j.Alerts.Check(ctx, j.UserID, snapshot)
	if err != nil {
		return fmt.Errorf("check alerts for %s: %w", j.UserID, err)
	}

	recorded := 0
	for _, e := range entries {
		price, ok := snapshot[e.ProductKey]
		if !ok {
			continue
		}
		changed, err := j.Wishlist.RecordPrice(ctx, e.ProductKey, price)
		if err != nil {
			log.Warn(LogMsgRecordPriceFailed, "product_key", e.ProductKey, "error", err)
			continue
		}
		if changed {
			recorded++
		}
	}

	log.Debug(LogMsgPriceCheckCompleted,
		"quoted", len(snapshot),
		"triggered", len(triggered),
		"recorded", recorded)
	return nil
}
