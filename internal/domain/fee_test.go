package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFeeSchedule_Calculate(t *testing.T) {
	tests := []struct {
		name       string
		fixed      int64
		percentage string
		amount     int64
		want       int64
	}{
		{name: "standard card rate", fixed: 30, percentage: "2.9", amount: 10000, want: 320},
		{name: "zero amount", fixed: 30, percentage: "2.9", amount: 0, want: 30},
		{name: "zero schedule", fixed: 0, percentage: "0", amount: 10000, want: 0},
		{name: "fixed only", fixed: 50, percentage: "0", amount: 12345, want: 50},
		{name: "percentage only", fixed: 0, percentage: "1.5", amount: 10000, want: 150},
		{name: "rounds down under half", fixed: 0, percentage: "2.9", amount: 50, want: 1}, // 1.45 -> 1
		{name: "rounds up over half", fixed: 0, percentage: "2.9", amount: 95, want: 3},    // 2.755 -> 3
		{name: "large amount", fixed: 30, percentage: "2.9", amount: 1000000, want: 29030},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, err := decimal.NewFromString(tt.percentage)
			assert.NoError(t, err)

			fees := FeeSchedule{Fixed: tt.fixed, Percentage: pct}
			assert.Equal(t, tt.want, fees.Calculate(tt.amount))
		})
	}
}
