package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
)

// fakeGardenRepo serves a single garden from memory and records writes.
type fakeGardenRepo struct {
	garden        *entities.Garden
	statusUpdates []entities.Zone
	events        []entities.ZoneEvent
	completions   []taskCompletion
}

type taskCompletion struct {
	zoneID      uuid.UUID
	templateID  string
	completedAt *time.Time
}

func (f *fakeGardenRepo) Create(ctx context.Context, garden *entities.Garden) error {
	f.garden = garden
	return nil
}

func (f *fakeGardenRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Garden, error) {
	if f.garden == nil || f.garden.ID != id {
		return nil, entities.ErrGardenNotFound
	}
	return f.garden, nil
}

func (f *fakeGardenRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Garden, error) {
	if f.garden == nil || f.garden.OwnerID != ownerID {
		return nil, nil
	}
	return []*entities.Garden{f.garden}, nil
}

func (f *fakeGardenRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.garden == nil || f.garden.ID != id {
		return entities.ErrGardenNotFound
	}
	f.garden = nil
	return nil
}

func (f *fakeGardenRepo) CreateZone(ctx context.Context, zone *entities.Zone) error {
	f.garden.Zones = append(f.garden.Zones, *zone)
	return nil
}

func (f *fakeGardenRepo) GetZone(ctx context.Context, gardenID, zoneID uuid.UUID) (*entities.Zone, error) {
	if f.garden == nil || f.garden.ID != gardenID {
		return nil, entities.ErrZoneNotFound
	}
	for i := range f.garden.Zones {
		if f.garden.Zones[i].ID == zoneID {
			return &f.garden.Zones[i], nil
		}
	}
	return nil, entities.ErrZoneNotFound
}

func (f *fakeGardenRepo) UpdateZoneStatus(ctx context.Context, zone *entities.Zone) error {
	f.statusUpdates = append(f.statusUpdates, *zone)
	return nil
}

func (f *fakeGardenRepo) AppendZoneEvent(ctx context.Context, zoneID uuid.UUID, event entities.ZoneEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeGardenRepo) SetTaskCompletion(ctx context.Context, zoneID uuid.UUID, templateID string, completedAt *time.Time) error {
	f.completions = append(f.completions, taskCompletion{zoneID: zoneID, templateID: templateID, completedAt: completedAt})
	return nil
}

func (f *fakeGardenRepo) DeleteZone(ctx context.Context, gardenID, zoneID uuid.UUID) error {
	for i := range f.garden.Zones {
		if f.garden.Zones[i].ID == zoneID {
			f.garden.Zones = append(f.garden.Zones[:i], f.garden.Zones[i+1:]...)
			return nil
		}
	}
	return entities.ErrZoneNotFound
}

type fakeSettingsRepo struct {
	settings *entities.UserSettings
	saved    *entities.UserSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context, userID uuid.UUID) (*entities.UserSettings, error) {
	if f.settings == nil || f.settings.UserID != userID {
		return nil, entities.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *entities.UserSettings) error {
	f.saved = settings
	f.settings = settings
	return nil
}

type fakeArchiveRepo struct {
	archives []entities.SeasonArchive
	saved    []*entities.SeasonArchive
}

func (f *fakeArchiveRepo) Save(ctx context.Context, archive *entities.SeasonArchive) error {
	f.saved = append(f.saved, archive)
	for i := range f.archives {
		if f.archives[i].GardenID == archive.GardenID && f.archives[i].SeasonYear == archive.SeasonYear {
			f.archives[i] = *archive
			return nil
		}
	}
	f.archives = append(f.archives, *archive)
	return nil
}

func (f *fakeArchiveRepo) ListByGarden(ctx context.Context, gardenID uuid.UUID) ([]entities.SeasonArchive, error) {
	var out []entities.SeasonArchive
	for _, a := range f.archives {
		if a.GardenID == gardenID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArchiveRepo) GetByYear(ctx context.Context, gardenID uuid.UUID, year int) (*entities.SeasonArchive, error) {
	for i := range f.archives {
		if f.archives[i].GardenID == gardenID && f.archives[i].SeasonYear == year {
			return &f.archives[i], nil
		}
	}
	return nil, entities.ErrArchiveNotFound
}

type fakeWeather struct {
	data entities.WeatherData
	ok   bool
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64) (entities.WeatherData, bool) {
	return f.data, f.ok
}
