package frost

import (
	"math"

	"github.com/gardenplan/core/internal/domain/calendar"
	"github.com/gardenplan/core/internal/domain/entities"
)

// Month-level adjustment policy: differences inside the dead zone never
// move a task across a month boundary; beyond the nudge threshold the
// shift is a single month, whatever the difference.
const (
	monthDeadZoneDays = 10
	monthNudgeDays    = 14
)

// Adjuster computes regional sowing shifts against the reference
// station. Read-only after construction.
type Adjuster struct {
	stations *Index
}

// NewAdjuster creates an adjuster over a station index.
func NewAdjuster(stations *Index) *Adjuster {
	return &Adjuster{stations: stations}
}

// Stations exposes the underlying station index.
func (a *Adjuster) Stations() *Index {
	return a.stations
}

// diffDays returns the signed day difference between the configured
// station's average last frost and the reference station's, evaluated
// in the given year, plus the manual offset. The second return is
// false when no station is configured.
func (a *Adjuster) diffDays(settings *entities.UserSettings, year int) (int, bool) {
	if settings == nil || settings.KNMIStationCode == nil {
		return 0, false
	}
	station, ok := a.stations.StationByCode(*settings.KNMIStationCode)
	if !ok {
		return 0, false
	}

	userFrost := calendar.FrostDateInYear(station.AvgLastFrostDate, year)
	refFrost := calendar.FrostDateInYear(a.stations.Reference().AvgLastFrostDate, year)
	days := int(userFrost.Sub(refFrost).Hours() / 24)
	return days + settings.FrostOffsetDays, true
}

// AdjustSowingMonth shifts a sowing month for regional frost timing.
// The shift is a discrete nudge of at most one month: small
// differences (under 10 days) never shift, and only differences over
// 14 days move the month. Result is clamped to 1-12.
func (a *Adjuster) AdjustSowingMonth(month int, settings *entities.UserSettings, year int) int {
	diff, ok := a.diffDays(settings, year)
	if !ok {
		return month
	}
	if abs(diff) < monthDeadZoneDays {
		return month
	}

	shift := 0
	if diff > monthNudgeDays {
		shift = 1
	} else if diff < -monthNudgeDays {
		shift = -1
	}
	return calendar.ClampMonth(month + shift)
}

// AdjustSowingWeek shifts a sowing week linearly: one week per seven
// days of frost-date difference, clamped to 1-53. Weekly granularity
// tolerates the smoother adjustment.
func (a *Adjuster) AdjustSowingWeek(week int, settings *entities.UserSettings, year int) int {
	diff, ok := a.diffDays(settings, year)
	if !ok {
		return week
	}
	shift := int(math.Round(float64(diff) / 7))
	return calendar.ClampWeek(week + shift)
}

// AdjustMonthRange applies the month nudge to both ends of a range.
func (a *Adjuster) AdjustMonthRange(r entities.MonthRange, settings *entities.UserSettings, year int) entities.MonthRange {
	return entities.MonthRange{
		Start: a.AdjustSowingMonth(r.Start, settings, year),
		End:   a.AdjustSowingMonth(r.End, settings, year),
	}
}

// AdjustWeekRange applies the linear week shift to both ends of a range.
func (a *Adjuster) AdjustWeekRange(r entities.WeekRange, settings *entities.UserSettings, year int) entities.WeekRange {
	return entities.WeekRange{
		Start: a.AdjustSowingWeek(r.Start, settings, year),
		End:   a.AdjustSowingWeek(r.End, settings, year),
	}
}

// LastFrostWeek returns the ISO week of the average last frost for the
// user's region, including the manual offset. Without settings it is
// the reference station's frost week.
func (a *Adjuster) LastFrostWeek(settings *entities.UserSettings, year int) int {
	station := a.stations.Reference()
	offset := 0
	if settings != nil {
		offset = settings.FrostOffsetDays
		if settings.KNMIStationCode != nil {
			if s, ok := a.stations.StationByCode(*settings.KNMIStationCode); ok {
				station = s
			}
		}
	}
	frost := calendar.FrostDateInYear(station.AvgLastFrostDate, year).AddDate(0, 0, offset)
	return calendar.ISOWeek(frost)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
