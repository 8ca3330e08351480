package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{2499, "usd", "$24.99"},
		{500, "usd", "$5.00"},
		{0, "usd", "$0.00"},
		{1899, "EUR", "€18.99"},
		{100, "gbp", "£1.00"},
		{1234, "jpy", "12.34 JPY"},
		{-500, "usd", "$-5.00"},
		{129900, "usd", "$1,299.00"},
		{123456789, "usd", "$1,234,567.89"},
		{123456700, "jpy", "1,234,567.00 JPY"},
	}
	for _, tc := range cases {
		if got := Format(tc.minor, tc.currency); got != tc.want {
			t.Fatalf("Format(%d, %q) = %q, want %q", tc.minor, tc.currency, got, tc.want)
		}
	}
}
