package currency

import "github.com/shopspring/decimal"

// Converter performs the fixed-rate conversion from the store's display
// currency to the settlement currency required by the payment gateway.
type Converter struct {
	rate decimal.Decimal
}

// NewConverter creates a converter with a fixed rate of settlement minor
// units per unit of store currency.
func NewConverter(rate int64) Converter {
	return Converter{rate: decimal.NewFromInt(rate)}
}

// ToSettlement converts a store-currency amount to settlement minor units,
// rounding half away from zero. The settlement currency has no fractional
// subunit, so the result is always a whole number.
func (c Converter) ToSettlement(amount decimal.Decimal) int64 {
	return amount.Mul(c.rate).Round(0).IntPart()
}
