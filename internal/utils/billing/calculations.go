// Package billing holds the shared money arithmetic used by the work-order
// billing engine. All amounts are rounded to 2 decimals eagerly, after every
// accumulation, to stay in lockstep with the amounts the receipts service
// stores.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// IVARate is the value-added tax applied to every receipt subtotal.
var IVARate = decimal.NewFromFloat(0.16)

// one plus IVARate, used to split tax-inclusive amounts.
var ivaFactor = decimal.NewFromFloat(1.16)

// MaxProductNameLen is the length cap the receipts service enforces on item
// product names.
const MaxProductNameLen = 200

// Round2 rounds a currency amount to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Taxes returns the IVA owed on a net subtotal, rounded to 2 decimals.
func Taxes(subTotal decimal.Decimal) decimal.Decimal {
	return Round2(subTotal.Mul(IVARate))
}

// SplitTaxInclusive breaks a tax-inclusive amount into net subtotal and tax
// portions. The two parts always add back up to the original amount.
func SplitTaxInclusive(amount decimal.Decimal) (subTotal, taxes decimal.Decimal) {
	subTotal = Round2(amount.Div(ivaFactor))
	taxes = amount.Sub(subTotal)
	return subTotal, taxes
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}

// ProportionalCharge computes the partial-month charge for a work order
// completed on date: the account's cycle subtotal spread over the month's
// days, times the days remaining after the completion day.
//
// A negative result has its sign flipped: the proportional amount is a
// charge, never a credit.
func ProportionalCharge(cycleSubTotal decimal.Decimal, date time.Time) decimal.Decimal {
	days := int64(DaysInMonth(date))
	remaining := days - int64(date.Day())
	p := cycleSubTotal.Div(decimal.NewFromInt(days)).Mul(decimal.NewFromInt(remaining))
	p = Round2(p)
	if p.IsNegative() {
		p = p.Neg()
	}
	return p
}

var spanishMonths = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// MonthName returns the Spanish name of a month, as printed on receipt items.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return spanishMonths[m]
}

// AnnotateProductName appends a billing-period annotation to a product name,
// truncating the name with an ellipsis when the combined length would exceed
// the receipts service's 200-character cap.
func AnnotateProductName(name, annotation string) string {
	combined := name + annotation
	if len([]rune(combined)) <= MaxProductNameLen {
		return combined
	}
	keep := MaxProductNameLen - len([]rune(annotation)) - 3
	if keep < 0 {
		keep = 0
	}
	return string([]rune(name)[:keep]) + "..." + annotation
}
