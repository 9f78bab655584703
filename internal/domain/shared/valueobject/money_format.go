package valueobject

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// DisplayINR formats the amount using Indian digit grouping for invoices
// and quotes, e.g. 6724046.50 -> "₹67,24,046.50".
func (m Money) DisplayINR() string {
	f, _ := m.amount.Round(2).Float64()
	return inPrinter.Sprintf("₹%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
