package numfmt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Int(tt.in))
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"19.99", "$19.99"},
		{"1234.5", "$1,234.50"},
		{"1000000", "$1,000,000.00"},
		{"-45.5", "-$45.50"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, Currency(d))
	}
}
