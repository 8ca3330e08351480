// Package money renders integer minor-currency-unit amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
}

var hundred = decimal.NewFromInt(100)

// Format renders an amount of minor units as a display price, e.g.
// Format(2499, "usd") == "$24.99". The integer part is grouped with commas.
// Currencies without a known symbol render as "24.99 XYZ".
func Format(minorUnits int64, currency string) string {
	amount := group(decimal.NewFromInt(minorUnits).DivRound(hundred, 2).StringFixed(2))
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym + amount
	}
	return amount + " " + strings.ToUpper(currency)
}

// group inserts thousands separators into the integer part of a fixed-point
// decimal string.
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
