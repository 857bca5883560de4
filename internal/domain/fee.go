package domain

import (
	"github.com/shopspring/decimal"
)

// FeeSchedule holds the per-integration transaction fee parameters.
// Both components come from settings, not from the gateway.
type FeeSchedule struct {
	Fixed      int64           // minor currency units
	Percentage decimal.Decimal // 0-100
}

// Calculate returns fixed + round(percentage/100 × amount) in minor units.
// The percentage component rounds half away from zero.
func (f FeeSchedule) Calculate(amount int64) int64 {
	variable := f.Percentage.
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(amount)).
		Round(0)
	return f.Fixed + variable.IntPart()
}
