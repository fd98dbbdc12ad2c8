package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND renders an amount the way vi-VN currency formatting does:
// whole dong, dot thousands separators and a trailing ₫.
func FormatVND(d decimal.Decimal) string {
	return GroupThousands(d.Round(0)) + " ₫"
}

// GroupThousands renders an integer amount with dot separators.
func GroupThousands(d decimal.Decimal) string {
	s := d.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Number exposes d as a JSON number literal.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
