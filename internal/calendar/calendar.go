// Package calendar computes the trading-day dates the exchange APIs are
// keyed on. TWSE wants Gregorian compact dates, TPEX wants ROC dates.
package calendar

import (
	"fmt"
	"time"
)

// rocYearOffset converts a Gregorian year to a Republic-of-China year.
const rocYearOffset = 1911

// marketCloseHour: before 15:00 local time today's data is not settled yet,
// so "today" rolls back one calendar day.
const marketCloseHour = 15

// TradingDate is one trading day in both calendar formats.
type TradingDate struct {
	Gregorian string // 20060102
	ROC       string // 114/01/02
}

// LastNTradingDates returns the last n trading dates counting back from now,
// skipping Saturdays and Sundays. Pure function of the given clock value so
// tests can pin it.
func LastNTradingDates(n int, now time.Time) []TradingDate {
	if now.Hour() < marketCloseHour {
		now = now.AddDate(0, 0, -1)
	}

	dates := make([]TradingDate, 0, n)
	current := now
	for i := 0; i < n; i++ {
		switch current.Weekday() {
		case time.Sunday:
			current = current.AddDate(0, 0, -2)
		case time.Saturday:
			current = current.AddDate(0, 0, -1)
		}

		year, month, day := current.Date()
		dates = append(dates, TradingDate{
			Gregorian: fmt.Sprintf("%04d%02d%02d", year, int(month), day),
			ROC:       fmt.Sprintf("%d/%02d/%02d", year-rocYearOffset, int(month), day),
		})

		current = current.AddDate(0, 0, -1)
	}
	return dates
}
