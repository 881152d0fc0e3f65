package services

import "time"

// BillingMonth is one step of the backward month walk used for retroactive
// billing. IsCompletionMonth marks the month the field work actually finished
// in, which is the only month the day-15 rule applies to.
type BillingMonth struct {
	Month             time.Month
	Year              int
	IsCompletionMonth bool
}

// monthsBack walks backward month-by-month from today's month to the
// completion month, inclusive. Every month before the completion month is a
// skipped full-subscription month; the completion month comes last. The walk
// is driven by date arithmetic on the first of the month, so year boundaries
// wrap safely.
//
// When completion is in today's month (or later), only the completion month
// is returned.
func monthsBack(today, completion time.Time) []BillingMonth {
	cur := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(completion.Year(), completion.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []BillingMonth
	for cur.After(end) {
		months = append(months, BillingMonth{Month: cur.Month(), Year: cur.Year()})
		cur = cur.AddDate(0, -1, 0)
	}
	months = append(months, BillingMonth{
		Month:             end.Month(),
		Year:              end.Year(),
		IsCompletionMonth: true,
	})
	return months
}
