package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
)

// GardenRepository defines the interface for garden and zone data
// operations. Gardens are loaded as full snapshots including zones,
// events and completion records.
type GardenRepository interface {
	Create(ctx context.Context, garden *entities.Garden) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Garden, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Garden, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateZone(ctx context.Context, zone *entities.Zone) error
	GetZone(ctx context.Context, gardenID, zoneID uuid.UUID) (*entities.Zone, error)
	UpdateZoneStatus(ctx context.Context, zone *entities.Zone) error
	AppendZoneEvent(ctx context.Context, zoneID uuid.UUID, event entities.ZoneEvent) error
	SetTaskCompletion(ctx context.Context, zoneID uuid.UUID, templateID string, completedAt *time.Time) error
	DeleteZone(ctx context.Context, gardenID, zoneID uuid.UUID) error
}

// SettingsRepository supplies and persists per-user settings. A
// missing row is reported via entities.ErrSettingsNotFound; callers
// treat that as "no adjustment".
type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*entities.UserSettings, error)
	Upsert(ctx context.Context, settings *entities.UserSettings) error
}

// ArchiveRepository supplies and persists season archives. Save is an
// upsert on (garden id, season year): an existing year is overwritten,
// never duplicated.
type ArchiveRepository interface {
	Save(ctx context.Context, archive *entities.SeasonArchive) error
	ListByGarden(ctx context.Context, gardenID uuid.UUID) ([]entities.SeasonArchive, error)
	GetByYear(ctx context.Context, gardenID uuid.UUID, year int) (*entities.SeasonArchive, error)
}

// SpeciesCatalog is the external species reference contract. Not-found
// means "skip this zone", never an error.
type SpeciesCatalog interface {
	SpeciesByID(id string) (entities.SpeciesCalendar, bool)
	PlantType(id string) string
}

// WeatherSource supplies recent weather for a station's coordinates.
// Optional: implementations may return ok=false when no data is
// available, and the engine degrades to no watering tasks.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (entities.WeatherData, bool)
}
