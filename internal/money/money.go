// Package money formats fine amounts for tables and exports.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders amount with two decimals and thousands separators,
// e.g. 1234.5 -> "1,234.50".
func Format(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Round rounds to cents, half away from zero.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Sum adds amounts in cents so totals do not drift.
func Sum(amounts ...float64) float64 {
	var cents int64
	for _, a := range amounts {
		cents += int64(math.Round(a * 100))
	}
	return float64(cents) / 100
}
