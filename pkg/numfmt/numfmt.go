package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// group inserts thousands separators into a string of digits.
func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Int formats an integer quantity with thousands separators, e.g. 12345 -> "12,345".
func Int(n int64) string {
	if n < 0 {
		return "-" + Int(-n)
	}
	return group(decimal.NewFromInt(n).String())
}

// Currency formats a decimal amount as US dollars with two decimal places
// and thousands separators, e.g. 1234.5 -> "$1,234.50".
func Currency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	out := "$" + group(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
