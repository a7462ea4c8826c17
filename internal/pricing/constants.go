package pricing

// Default fee amounts, as decimal strings
const (
	DefaultServiceFeePerLine    = "1.50"
	DefaultInspectionFeePerUnit = "6.99"
	DefaultConsolidationFee     = "5.00"
)

// PresentationPlaces is the number of decimal places amounts are rounded to
// when shown. Accumulation never rounds.
const PresentationPlaces = 2

// RulesSchemaName identifies the embedded JSON schema for rule files
const RulesSchemaName = "fees.schema.json"

// DefaultCurrency used when no ISO code is configured
const DefaultCurrency = "EUR"
