package pricing

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/storefront/internal/utils"
	"github.com/osse101/storefront/internal/validation"
)

//go:embed fees.schema.json
var rulesSchema []byte

// Rules are the composable fee amounts the calculator applies
type Rules struct {
	Version              string          `json:"version,omitempty"`
	ServiceFeePerLine    decimal.Decimal `json:"service_fee_per_line"`
	InspectionFeePerUnit decimal.Decimal `json:"inspection_fee_per_unit"`
	ConsolidationFee     decimal.Decimal `json:"consolidation_fee"`
}

// DefaultRules returns the built-in fee schedule
func DefaultRules() Rules {
	return Rules{
		Version:              "default",
		ServiceFeePerLine:    decimal.RequireFromString(DefaultServiceFeePerLine),
		InspectionFeePerUnit: decimal.RequireFromString(DefaultInspectionFeePerUnit),
		ConsolidationFee:     decimal.RequireFromString(DefaultConsolidationFee),
	}
}

// LoadRules reads a fee schedule from a JSON file after validating it
// against the embedded schema
func LoadRules(path string) (Rules, error) {
	v := validation.NewSchemaValidator()
	if err := v.Register(RulesSchemaName, rulesSchema); err != nil {
		return Rules{}, err
	}
	if err := v.ValidateFile(path, RulesSchemaName); err != nil {
		return Rules{}, fmt.Errorf("invalid fee rules %s: %w", path, err)
	}

	var rules Rules
	if err := utils.LoadJSON(path, &rules); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// SaveRules writes a fee schedule in the format LoadRules reads
func SaveRules(path string, rules Rules) error {
	return utils.SaveJSON(path, rules)
}
