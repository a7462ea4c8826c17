package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Round rounds d half away from zero to PresentationPlaces
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(PresentationPlaces)
}

// Formatter renders amounts for one currency and locale
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter parses an ISO 4217 code; unknown codes fall back to DefaultCurrency
func NewFormatter(code string, tag language.Tag) *Formatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}
	return &Formatter{unit: unit, printer: message.NewPrinter(tag)}
}

// Currency returns the ISO code in use
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format rounds d and renders it with the currency symbol
func (f *Formatter) Format(d decimal.Decimal) string {
	amount, _ := Round(d).Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}

// Format renders d in currency code using English conventions
func Format(d decimal.Decimal, code string) string {
	return NewFormatter(code, language.English).Format(d)
}
