package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
		ok   bool
	}{
		{"plain", "150.00", "150.00", true},
		{"negative", "-75.50", "-75.50", true},
		{"thousands separators", "1,250,300.75", "1250300.75", true},
		{"currency prefix", "S/1500.00", "1500.00", true},
		{"currency prefix with space", "S/ 1,500.00", "1500.00", true},
		{"padded", "  42  ", "42", true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
		{"non-numeric", "TOTALES", "", false},
		{"dash placeholder", "-", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
			}
		})
	}
}
