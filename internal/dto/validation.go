package dto

import (
	"reflect"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations adds the decimal type mapping and the dgt0 rule
// (decimal strictly greater than zero, at most domain.AmountScale decimal places) to v.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	return v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.IsPositive() && domain.CheckScale(d) == nil
	})
}
