package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskType classifies generated calendar tasks.
type TaskType string

const (
	TaskSowIndoor   TaskType = "sow-indoor"
	TaskSowOutdoor  TaskType = "sow-outdoor"
	TaskHarvest     TaskType = "harvest"
	TaskMaintenance TaskType = "maintenance"
	TaskWarning     TaskType = "warning"
	TaskWatering    TaskType = "watering"
)

// MaintenanceTemplate is a static per-plant-type recurring task
// definition. An empty Months list means the task applies in any month
// of the growing season.
type MaintenanceTemplate struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	Frequency   TaskFrequency `json:"frequency" yaml:"frequency"`
	Months      []int         `json:"months,omitempty" yaml:"months,omitempty"`
}

// PestWarningTemplate is a static per-plant-type pest or disease
// advisory, applicable only in the listed months.
type PestWarningTemplate struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Advice  string `json:"advice" yaml:"advice"`
	Months  []int  `json:"months" yaml:"months"`
	Subject string `json:"subject" yaml:"subject"`
}

// MonthlyTask is an ephemeral, month-scoped task view-model. Never
// persisted; regenerated from the garden snapshot on every call.
type MonthlyTask struct {
	ZoneID      uuid.UUID            `json:"zone_id"`
	PlantID     string               `json:"plant_id"`
	SpeciesName string               `json:"species_name"`
	Icon        string               `json:"icon"`
	Type        TaskType             `json:"type"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Template    *MaintenanceTemplate `json:"template,omitempty"`
	Completed   bool                 `json:"completed"`
}

// WeeklyTask is the week-scoped variant; it additionally carries the
// ISO week it was generated for.
type WeeklyTask struct {
	MonthlyTask
	Week int `json:"week"`
}

// RotationWarning reports a crop-rotation conflict against a past
// season's archived layout.
type RotationWarning struct {
	ZoneID              uuid.UUID `json:"zone_id"`
	PlantID             string    `json:"plant_id"`
	FamilyID            string    `json:"family_id"`
	FamilyName          string    `json:"family_name"`
	ConflictYear        int       `json:"conflict_year"`
	ConflictSpeciesName string    `json:"conflict_species_name"`
	RotationYears       int       `json:"rotation_years"`
}

// StatusHint suggests the next lifecycle status for a zone. Advisory
// only; the engine never applies it.
type StatusHint struct {
	ZoneID    uuid.UUID  `json:"zone_id"`
	Current   ZoneStatus `json:"current"`
	Suggested ZoneStatus `json:"suggested"`
	Message   string     `json:"message"`
}

// PositionRecord is one historical planting overlapping a position,
// used for display.
type PositionRecord struct {
	SeasonYear  int    `json:"season_year"`
	PlantID     string `json:"plant_id"`
	SpeciesName string `json:"species_name"`
	FamilyID    string `json:"family_id"`
}

// WeekPlan is the orchestrated view-model for one garden and ISO week.
type WeekPlan struct {
	GardenID  uuid.UUID         `json:"garden_id"`
	Year      int               `json:"year"`
	Week      int               `json:"week"`
	WeekStart time.Time         `json:"week_start"`
	WeekEnd   time.Time         `json:"week_end"`
	Tasks     []WeeklyTask      `json:"tasks"`
	Hints     []StatusHint      `json:"hints"`
	Warnings  []RotationWarning `json:"warnings"`
}
