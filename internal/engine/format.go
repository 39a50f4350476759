package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders 1234.5 as "$1,234.50".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-" + FormatCurrency(-v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatInt renders 1234 as "1,234".
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatDecimal renders 1234.5 as "1,234.50".
func FormatDecimal(v float64) string {
	return printer.Sprintf("%.2f", v)
}
