package validation

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	structValidator *validator.Validate
	structOnce      sync.Once
)

// Struct returns the shared tag-based validator used for persisted entities
// and request bodies. decimal.Decimal fields validate as float64, so numeric
// tags like gt=0 apply to money.
func Struct() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		structValidator = v
	})
	return structValidator
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
