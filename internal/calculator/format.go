package calculator

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPayment renders a payment rounded to whole currency units with
// thousands separators, e.g. 1896.2 -> "$1,896". Rounding is for display
// only.
func FormatPayment(amount float64) string {
	return printer.Sprintf("$%d", int64(math.Round(amount)))
}
