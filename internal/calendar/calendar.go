// Package calendar defines the inventory valuation calendar.
//
// Inventories are taken on the first day of March, June, September and December.
// All dates handled here are date-only values normalized to day 1 at midnight UTC.
package calendar

import (
	"fmt"
	"time"
)

// YearMonthFormat is the canonical "YYYY-MM" key used for snapshot lookups and UI round-trips.
const YearMonthFormat = "2006-01"

// quarterMonths are the boundary months, in calendar order.
var quarterMonths = []time.Month{time.March, time.June, time.September, time.December}

// QuarterStart returns the latest quarter boundary that is on or before t.
// Dates in January and February belong to the December boundary of the previous year.
// A date exactly on a boundary returns that boundary.
//
// Only the calendar date of t in its own location is considered.
func QuarterStart(t time.Time) time.Time {
	year, month, _ := t.Date()
	for i := len(quarterMonths) - 1; i >= 0; i-- {
		if quarterMonths[i] <= month {
			return monthStart(year, quarterMonths[i])
		}
	}
	return monthStart(year-1, time.December)
}

// LatestAllowedQuarter returns the newest quarter a snapshot may target at now.
func LatestAllowedQuarter(now time.Time) time.Time {
	return QuarterStart(now)
}

// IsQuarterStart reports whether t is itself a quarter boundary (first day of a boundary month).
func IsQuarterStart(t time.Time) bool {
	_, _, day := t.Date()
	return day == 1 && QuarterStart(t).Month() == t.Month()
}

// NextQuarterStart returns the boundary following the quarter containing t.
func NextQuarterStart(t time.Time) time.Time {
	return QuarterStart(QuarterStart(t).AddDate(0, 3, 0))
}

// FormatYearMonth formats t as "YYYY-MM".
func FormatYearMonth(t time.Time) string {
	return t.Format(YearMonthFormat)
}

// Label formats t as the display label used by reports, e.g. "2025年03月".
func Label(t time.Time) string {
	return fmt.Sprintf("%d年%02d月", t.Year(), int(t.Month()))
}

// ParseYearMonth parses "YYYY-MM" (or a full "YYYY-MM-DD" date) into the first day of that month.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse(YearMonthFormat, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse year-month %q: %w", s, err)
		}
	}
	return monthStart(t.Year(), t.Month()), nil
}

// CalloutInfo describes the inventory notice shown during the month after a quarter boundary.
type CalloutInfo struct {
	Quarter    time.Time `json:"quarter"`
	MonthValue string    `json:"monthValue"`
	Label      string    `json:"label"`
	ShownIn    time.Time `json:"shownIn"`
}

// Callout returns the notice to display at now, if any.
// A notice for boundary Q is shown for the whole calendar month following Q.
func Callout(now time.Time) (CalloutInfo, bool) {
	year, month, _ := now.Date()
	previous := monthStart(year, month).AddDate(0, -1, 0)
	if !IsQuarterStart(previous) {
		return CalloutInfo{}, false
	}
	return CalloutInfo{
		Quarter:    previous,
		MonthValue: FormatYearMonth(previous),
		Label:      Label(previous),
		ShownIn:    monthStart(year, month),
	}, true
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
