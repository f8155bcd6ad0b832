// Package calendar implements the week and month arithmetic the
// planning engine is built on: ISO-8601 week numbering, week date
// windows and wrap-around range membership.
package calendar

import (
	"math"
	"time"

	"github.com/gardenplan/core/internal/domain/entities"
)

// weeksPerMonth is the fixed month-to-week conversion ratio. The
// resulting week ranges are a scheduling aid, not authoritative.
const weeksPerMonth = 4.33

// ISOWeek returns the ISO-8601 week number (1-53) of a date.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOYear returns the ISO week-numbering year of a date, which can
// differ from the calendar year near the year boundary.
func ISOYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// WeekDateRange returns the Monday-start, 7-day inclusive window of an
// ISO week in the given year.
func WeekDateRange(week, year int) (time.Time, time.Time) {
	start := mondayOfWeekOne(year).AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 6)
}

// mondayOfWeekOne finds the Monday of ISO week 1: the week containing
// January 4th.
func mondayOfWeekOne(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := int(jan4.Weekday())
	if offset == 0 {
		offset = 7 // Sunday
	}
	return jan4.AddDate(0, 0, 1-offset)
}

// MonthRangeToWeekRange converts a month range to an approximate week
// range using the fixed weeks-per-month ratio.
func MonthRangeToWeekRange(r entities.MonthRange) entities.WeekRange {
	startWeek := int(math.Round(float64(r.Start-1)*weeksPerMonth)) + 1
	endWeek := int(math.Round(float64(r.End) * weeksPerMonth))
	return entities.WeekRange{
		Start: ClampWeek(startWeek),
		End:   ClampWeek(endWeek),
	}
}

// InMonthRange reports month membership. Start > End denotes a
// wrap-around interval spanning the year boundary.
func InMonthRange(month int, r entities.MonthRange) bool {
	if r.Start <= r.End {
		return month >= r.Start && month <= r.End
	}
	return month >= r.Start || month <= r.End
}

// InWeekRange reports ISO-week membership with the same wrap-around
// semantics as InMonthRange.
func InWeekRange(week int, r entities.WeekRange) bool {
	if r.Start <= r.End {
		return week >= r.Start && week <= r.End
	}
	return week >= r.Start || week <= r.End
}

// FrostDateToWeek converts a fixed MM-DD frost date into the ISO week
// it falls in for the given year. The static reference data guarantees
// the format; malformed input yields week 1.
func FrostDateToWeek(mmdd string, year int) int {
	t, err := time.Parse("01-02", mmdd)
	if err != nil {
		return 1
	}
	d := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return ISOWeek(d)
}

// FrostDateInYear materializes a MM-DD frost date in a concrete year.
func FrostDateInYear(mmdd string, year int) time.Time {
	t, err := time.Parse("01-02", mmdd)
	if err != nil {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampWeek clamps a week number to the valid 1-53 range.
func ClampWeek(w int) int {
	if w < 1 {
		return 1
	}
	if w > 53 {
		return 53
	}
	return w
}

// ClampMonth clamps a month number to the valid 1-12 range.
func ClampMonth(m int) int {
	if m < 1 {
		return 1
	}
	if m > 12 {
		return 12
	}
	return m
}
