package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"35758", "R 35 758.00"},
		{"50655.5", "R 50 655.50"},
		{"0", "R 0.00"},
		{"999.999", "R 1 000.00"},
		{"100", "R 100.00"},
		{"1234567.8", "R 1 234 567.80"},
		{"-1500", "R -1 500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRand(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatRand_RoundTrip(t *testing.T) {
	d := decimal.RequireFromString("35758.00")
	parsed, ok := ParseAmount(FormatRand(d))
	assert.True(t, ok)
	assert.True(t, d.Equal(parsed))
}
