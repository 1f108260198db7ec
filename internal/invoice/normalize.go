package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCurrency converts a Brazilian money string such as "R$ 1.234,56"
// to a float. Empty or malformed input yields 0.
func ParseCurrency(s string) float64 {
	return parseCurrencyDecimal(s).InexactFloat64()
}

// ParseNumber converts a Brazilian number string such as "1.234,56"
// to a float. Empty or malformed input yields 0.
func ParseNumber(s string) float64 {
	return parseNumberDecimal(s).InexactFloat64()
}

func parseCurrencyDecimal(s string) decimal.Decimal {
	return parseNumberDecimal(strings.ReplaceAll(s, "R$", ""))
}

// parseNumberDecimal drops "." thousands separators and reads "," as the
// decimal point
func parseNumberDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
