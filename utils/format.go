package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as dollars with two decimals, e.g. "$1200.50".
func FormatMoney(amount float64) string {
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}

// RoundMoney rounds an amount to cents for JSON output.
func RoundMoney(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// ParseIntParam parses an optional integer query parameter. An empty value
// yields def; anything that is not an integer is an error.
func ParseIntParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
