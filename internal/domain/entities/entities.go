package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGardenNotFound   = errors.New("garden not found")
	ErrZoneNotFound     = errors.New("zone not found")
	ErrSpeciesNotFound  = errors.New("species not found")
	ErrArchiveNotFound  = errors.New("season archive not found")
	ErrSettingsNotFound = errors.New("user settings not found")
	ErrInvalidStatus    = errors.New("invalid zone status")
	ErrInvalidSeason    = errors.New("invalid season year")
)

// ZoneStatus is the lifecycle state of a planted zone.
type ZoneStatus string

const (
	StatusPlanned      ZoneStatus = "planned"
	StatusSownIndoor   ZoneStatus = "sown-indoor"
	StatusSownOutdoor  ZoneStatus = "sown-outdoor"
	StatusTransplanted ZoneStatus = "transplanted"
	StatusGrowing      ZoneStatus = "growing"
	StatusHarvesting   ZoneStatus = "harvesting"
	StatusDone         ZoneStatus = "done"
)

// EventType tags entries in a zone's event log.
type EventType string

const (
	EventSown         EventType = "sown"
	EventTransplanted EventType = "transplanted"
	EventHarvested    EventType = "harvested"
	EventTaskDone     EventType = "task-done"
	EventNote         EventType = "note"
)

// TaskFrequency describes how often a maintenance task recurs.
type TaskFrequency string

const (
	FrequencyOnce     TaskFrequency = "once"
	FrequencyDaily    TaskFrequency = "daily"
	FrequencyWeekly   TaskFrequency = "weekly"
	FrequencyBiweekly TaskFrequency = "biweekly"
	FrequencyMonthly  TaskFrequency = "monthly"
	FrequencyYearly   TaskFrequency = "yearly"
)

// MonthRange is a closed month interval (1-12). Start > End denotes a
// wrap-around interval spanning the year boundary.
type MonthRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// WeekRange is a closed ISO-week interval (1-53). Start > End wraps.
type WeekRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SpeciesCalendar is the immutable per-species reference entry.
type SpeciesCalendar struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Icon       string      `json:"icon" yaml:"icon"`
	PlantType  string      `json:"plant_type" yaml:"plant_type"`
	SowIndoor  *MonthRange `json:"sow_indoor,omitempty" yaml:"sow_indoor,omitempty"`
	SowOutdoor *MonthRange `json:"sow_outdoor,omitempty" yaml:"sow_outdoor,omitempty"`
	Harvest    *MonthRange `json:"harvest,omitempty" yaml:"harvest,omitempty"`
}

// PlantFamily groups species for rotation checks. Static reference data.
type PlantFamily struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	RotationYears int      `json:"rotation_years" yaml:"rotation_years"`
	Members       []string `json:"members" yaml:"members"`
}

// Station is a KNMI-style regional reference point. Frost dates are
// year-independent MM-DD strings.
type Station struct {
	Code              string  `json:"code" yaml:"code"`
	Name              string  `json:"name" yaml:"name"`
	Latitude          float64 `json:"latitude" yaml:"latitude"`
	Longitude         float64 `json:"longitude" yaml:"longitude"`
	AvgLastFrostDate  string  `json:"avg_last_frost_date" yaml:"avg_last_frost_date"`
	AvgFirstFrostDate string  `json:"avg_first_frost_date" yaml:"avg_first_frost_date"`
}

// UserSettings carries the regional adjustment inputs. A nil settings
// value means no adjustment anywhere.
type UserSettings struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Postcode        *string   `json:"postcode" db:"postcode"`
	KNMIStationCode *string   `json:"knmi_station_code" db:"knmi_station_code"`
	FrostOffsetDays int       `json:"frost_offset_days" db:"frost_offset_days"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ZoneEvent is one entry in a zone's append-only lifecycle log.
type ZoneEvent struct {
	Type       EventType `json:"type" db:"event_type"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
	Note       *string   `json:"note,omitempty" db:"note"`
}

// Zone is a planted rectangle within a garden. Position and extent are
// in centimeters.
type Zone struct {
	ID             uuid.UUID            `json:"id" db:"id"`
	GardenID       uuid.UUID            `json:"garden_id" db:"garden_id"`
	PlantID        string               `json:"plant_id" db:"plant_id"`
	X              float64              `json:"x" db:"x"`
	Y              float64              `json:"y" db:"y"`
	WidthCm        float64              `json:"width_cm" db:"width_cm"`
	HeightCm       float64              `json:"height_cm" db:"height_cm"`
	Status         ZoneStatus           `json:"status" db:"status"`
	Season         int                  `json:"season" db:"season"`
	CompletedTasks map[string]time.Time `json:"completed_tasks"`
	Events         []ZoneEvent          `json:"events"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}

// Garden is the snapshot the engine operates on.
type Garden struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Zones     []Zone    `json:"zones"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ArchivedZone is the frozen form of a zone inside a season archive.
type ArchivedZone struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	PlantID     string  `json:"plant_id"`
	FamilyID    string  `json:"family_id"`
	SpeciesName string  `json:"species_name"`
}

// SeasonArchive is an immutable end-of-season snapshot of a garden's
// zone layout. Unique per (garden, season year).
type SeasonArchive struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	GardenID   uuid.UUID      `json:"garden_id" db:"garden_id"`
	SeasonYear int            `json:"season_year" db:"season_year"`
	Zones      []ArchivedZone `json:"zones"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// WeatherData is supplied by an external weather source; the engine
// only consumes it.
type WeatherData struct {
	PrecipitationLast7Days float64 `json:"precipitation_last_7_days"`
	MaxTempToday           float64 `json:"max_temp_today"`
}

// EffectiveStatus returns the zone status, defaulting to planned when
// the stored value is empty.
func (z *Zone) EffectiveStatus() ZoneStatus {
	if z.Status == "" {
		return StatusPlanned
	}
	return z.Status
}

// LastEventOfType returns the most recent event with the given type.
func (z *Zone) LastEventOfType(t EventType) *ZoneEvent {
	for i := len(z.Events) - 1; i >= 0; i-- {
		if z.Events[i].Type == t {
			return &z.Events[i]
		}
	}
	return nil
}

// SowingStarted reports whether the zone has moved past the planned
// state; sow tasks are considered done from that point on.
func (z *Zone) SowingStarted() bool {
	return z.EffectiveStatus() != StatusPlanned
}

// Harvested reports whether the zone's season is fully finished.
func (z *Zone) Harvested() bool {
	return z.EffectiveStatus() == StatusDone
}

// EventTypeForStatus maps a lifecycle status change to the event type
// appended to the zone's log.
func EventTypeForStatus(s ZoneStatus) EventType {
	switch s {
	case StatusSownIndoor, StatusSownOutdoor:
		return EventSown
	case StatusTransplanted:
		return EventTransplanted
	case StatusHarvesting, StatusDone:
		return EventHarvested
	default:
		return EventNote
	}
}

// Repeats reports whether a frequency re-opens after its interval.
func (f TaskFrequency) Repeats() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// Interval returns the re-open interval for repeating frequencies and
// zero for once/yearly.
func (f TaskFrequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Utility methods
func (s ZoneStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusSownIndoor, StatusSownOutdoor, StatusTransplanted, StatusGrowing, StatusHarvesting, StatusDone:
		return true
	default:
		return false
	}
}

func (f TaskFrequency) IsValid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}
