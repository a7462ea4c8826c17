package alerts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/domain"
)

// ShouldTrigger is the pure trigger decision. Both boundaries are inclusive.
func ShouldTrigger(direction domain.Direction, target, observed decimal.Decimal) bool {
	switch direction {
	case domain.DirectionBelow:
		return observed.LessThanOrEqual(target)
	case domain.DirectionAbove:
		return observed.GreaterThanOrEqual(target)
	}
	return false
}

// Evaluate applies an observed price to alert. It records the observation
// and, on trigger, stamps TriggeredAt and deactivates the alert. An alert
// that is not armed is returned unchanged and never triggers again.
func Evaluate(alert domain.PriceAlert, observed decimal.Decimal, now time.Time) (domain.PriceAlert, bool) {
	if !alert.IsArmed() {
		return alert, false
	}
	alert.CurrentPrice = observed
	if !ShouldTrigger(alert.Direction, alert.TargetPrice, observed) {
		return alert, false
	}
	at := now
	alert.TriggeredAt = &at
	alert.Active = false
	return alert, true
}
