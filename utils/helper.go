package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

// FormatTonnes renders a kilogram quantity as tonnes with two fixed
// decimals and en-US style thousands separators ("1,234.50").
func FormatTonnes(kg decimal.Decimal) string {
	s := kg.Div(decimal.NewFromInt(1000)).StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('.')
	sb.WriteString(fracPart)
	return sb.String()
}
