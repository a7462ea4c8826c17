package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/domain"
)

// Summary is the full price breakdown of a cart
type Summary struct {
	Lines            int             `json:"lines"`
	Units            int             `json:"units"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ServiceFee       decimal.Decimal `json:"service_fee"`
	InspectionFee    decimal.Decimal `json:"inspection_fee"`
	ConsolidationFee decimal.Decimal `json:"consolidation_fee"`
	EstimatedTotal   decimal.Decimal `json:"estimated_total"`
}

// Rounded returns a copy with every amount rounded for presentation
func (s Summary) Rounded() Summary {
	s.Subtotal = Round(s.Subtotal)
	s.ServiceFee = Round(s.ServiceFee)
	s.InspectionFee = Round(s.InspectionFee)
	s.ConsolidationFee = Round(s.ConsolidationFee)
	s.EstimatedTotal = Round(s.EstimatedTotal)
	return s
}

// Calculator derives totals from cart lines. All methods are pure.
type Calculator struct {
	Rules Rules
}

// NewCalculator creates a Calculator for rules
func NewCalculator(rules Rules) *Calculator {
	return &Calculator{Rules: rules}
}

// UnitPrice is the line's base price plus every selected variant adjustment
func (c *Calculator) UnitPrice(item domain.LineItem) decimal.Decimal {
	price := item.UnitPrice
	for _, v := range item.Variants {
		price = price.Add(v.PriceAdjustment)
	}
	return price
}

func (c *Calculator) merchandise(item domain.LineItem) decimal.Decimal {
	return c.UnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func (c *Calculator) inspection(item domain.LineItem) decimal.Decimal {
	if !item.Addons.QualityInspection {
		return decimal.Zero
	}
	return c.Rules.InspectionFeePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// LineTotal is unit price × quantity plus the per-unit inspection fee when selected
func (c *Calculator) LineTotal(item domain.LineItem) decimal.Decimal {
	return c.merchandise(item).Add(c.inspection(item))
}

// Subtotal sums unit price × quantity over items
func (c *Calculator) Subtotal(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(c.merchandise(item))
	}
	return total
}

// ServiceFee is charged once per distinct line, not per unit
func (c *Calculator) ServiceFee(items []domain.LineItem) decimal.Decimal {
	return c.Rules.ServiceFeePerLine.Mul(decimal.NewFromInt(int64(len(items))))
}

// InspectionFee sums the per-unit inspection fee over lines that selected it
func (c *Calculator) InspectionFee(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(c.inspection(item))
	}
	return total
}

// ConsolidationFee is a flat fee when any line selected consolidation
func (c *Calculator) ConsolidationFee(items []domain.LineItem) decimal.Decimal {
	for _, item := range items {
		if item.Addons.PackageConsolidation {
			return c.Rules.ConsolidationFee
		}
	}
	return decimal.Zero
}

// EstimatedTotal = subtotal + service fee + inspection fee + consolidation fee
func (c *Calculator) EstimatedTotal(items []domain.LineItem) decimal.Decimal {
	return c.Summarize(items).EstimatedTotal
}

// Summarize computes the whole breakdown in full precision
func (c *Calculator) Summarize(items []domain.LineItem) Summary {
	s := Summary{
		Lines:            len(items),
		Units:            domain.CountUnits(items),
		Subtotal:         c.Subtotal(items),
		ServiceFee:       c.ServiceFee(items),
		InspectionFee:    c.InspectionFee(items),
		ConsolidationFee: c.ConsolidationFee(items),
	}
	s.EstimatedTotal = s.Subtotal.Add(s.ServiceFee).Add(s.InspectionFee).Add(s.ConsolidationFee)
	return s
}

var defaultCalculator = NewCalculator(DefaultRules())

// LineTotal uses the default rules
func LineTotal(item domain.LineItem) decimal.Decimal { return defaultCalculator.LineTotal(item) }

// Subtotal uses the default rules
func Subtotal(items []domain.LineItem) decimal.Decimal { return defaultCalculator.Subtotal(items) }

// ServiceFee uses the default rules
func ServiceFee(items []domain.LineItem) decimal.Decimal { return defaultCalculator.ServiceFee(items) }

// InspectionFee uses the default rules
func InspectionFee(items []domain.LineItem) decimal.Decimal {
	return defaultCalculator.InspectionFee(items)
}

// ConsolidationFee uses the default rules
func ConsolidationFee(items []domain.LineItem) decimal.Decimal {
	return defaultCalculator.ConsolidationFee(items)
}

// EstimatedTotal uses the default rules
func EstimatedTotal(items []domain.LineItem) decimal.Decimal {
	return defaultCalculator.EstimatedTotal(items)
}
