// Package currency handles USD amount formatting and normalization.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders an amount as USD with exactly two fraction digits
// and en-US grouping, e.g. $1,234.50. Non-finite amounts render as $0.00.
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0.00"
	}
	return printer.Sprintf("$%.2f", amount)
}

// Fix normalizes an amount to cent precision by cutting the decimal
// representation after two fraction digits. Cutting rather than rounding
// keeps amounts like 9.999 at 9.99, matching recorded cart behavior.
// Non-finite amounts normalize to 0.
func Fix(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s) > i+3 {
		s = s[:i+3]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
