package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits stored for every money amount.
// It matches the NUMERIC(20, 4) columns of the schema.
const AmountScale = 4

// CheckScale fails when d carries more fractional digits than the store keeps.
// Trailing zeros do not count.
func CheckScale(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("amount %s has more than %d decimal places", d.String(), AmountScale)
	}
	return nil
}
