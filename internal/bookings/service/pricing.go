package service

import (
	"math"
	"time"
)

// inclusiveDaySpan counts the calendar days a booking occupies. Both endpoint
// days are billed, so a booking from D to D+2 spans three days and a
// single-day booking spans one. Only the calendar dates matter; clock time
// within the day is ignored.
func inclusiveDaySpan(start, end time.Time) int {
	s := calendarDate(start)
	e := calendarDate(end)
	return int(e.Sub(s).Hours()/24) + 1
}

func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// totalPrice is the item's daily rate times the inclusive day span, rounded
// to cents.
func totalPrice(pricePerDay float64, start, end time.Time) float64 {
	raw := pricePerDay * float64(inclusiveDaySpan(start, end))
	return math.Round(raw*100) / 100
}
