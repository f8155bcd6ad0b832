package ports

import (
	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
)

// CreateGardenRequest carries the fields for a new garden.
type CreateGardenRequest struct {
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
	Name    string    `json:"name" validate:"required,min=1,max=120"`
}

// CreateZoneRequest carries the fields for a new planted zone.
type CreateZoneRequest struct {
	PlantID  string  `json:"plant_id" validate:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	WidthCm  float64 `json:"width_cm" validate:"required,gt=0"`
	HeightCm float64 `json:"height_cm" validate:"required,gt=0"`
}

// SetZoneStatusRequest carries a lifecycle status change.
type SetZoneStatusRequest struct {
	Status entities.ZoneStatus `json:"status" validate:"required"`
	Note   *string             `json:"note,omitempty"`
}

// UpdateSettingsRequest carries user settings changes. The station
// code is resolved from the postcode when not given explicitly.
type UpdateSettingsRequest struct {
	Postcode        *string `json:"postcode,omitempty"`
	KNMIStationCode *string `json:"knmi_station_code,omitempty"`
	FrostOffsetDays int     `json:"frost_offset_days" validate:"min=-60,max=60"`
}

// ArchiveSeasonRequest names the season year to archive. Zero means
// the current year.
type ArchiveSeasonRequest struct {
	SeasonYear int `json:"season_year" validate:"omitempty,min=2000,max=2200"`
}
