package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/families"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// ArchiveService creates and serves end-of-season snapshots. Archives
// are only ever written here, on an explicit user action; the planning
// engine just reads them.
type ArchiveService struct {
	gardenRepo  ports.GardenRepository
	archiveRepo ports.ArchiveRepository
	catalog     ports.SpeciesCatalog
	families    *families.Registry
	logger      *logger.Logger
	now         func() time.Time
}

// NewArchiveService creates a new archive service.
func NewArchiveService(gardenRepo ports.GardenRepository, archiveRepo ports.ArchiveRepository, catalog ports.SpeciesCatalog, families *families.Registry, logger *logger.Logger) *ArchiveService {
	return &ArchiveService{
		gardenRepo:  gardenRepo,
		archiveRepo: archiveRepo,
		catalog:     catalog,
		families:    families,
		logger:      logger,
		now:         time.Now,
	}
}

// ArchiveSeason snapshots a garden's current zones under a season
// year. Saving an already-archived year overwrites that archive.
func (s *ArchiveService) ArchiveSeason(ctx context.Context, gardenID uuid.UUID, seasonYear int) (*entities.SeasonArchive, error) {
	if seasonYear == 0 {
		seasonYear = s.now().Year()
	}
	if seasonYear < 2000 || seasonYear > s.now().Year()+1 {
		return nil, entities.ErrInvalidSeason
	}

	garden, err := s.gardenRepo.GetByID(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("garden not found: %w", err)
	}

	archive := &entities.SeasonArchive{
		ID:         uuid.New(),
		GardenID:   gardenID,
		SeasonYear: seasonYear,
		CreatedAt:  s.now(),
	}
	for _, zone := range garden.Zones {
		az := entities.ArchivedZone{
			X:        zone.X,
			Y:        zone.Y,
			WidthCm:  zone.WidthCm,
			HeightCm: zone.HeightCm,
			PlantID:  zone.PlantID,
		}
		if sp, ok := s.catalog.SpeciesByID(zone.PlantID); ok {
			az.SpeciesName = sp.Name
		}
		if f, ok := s.families.PlantFamily(zone.PlantID); ok {
			az.FamilyID = f.ID
		}
		archive.Zones = append(archive.Zones, az)
	}

	if err := s.archiveRepo.Save(ctx, archive); err != nil {
		return nil, fmt.Errorf("failed to save season archive: %w", err)
	}

	s.logger.Info("Season archived",
		"garden_id", gardenID, "season_year", seasonYear, "zones", len(archive.Zones))

	return archive, nil
}

// ListArchives returns all archives for a garden.
func (s *ArchiveService) ListArchives(ctx context.Context, gardenID uuid.UUID) ([]entities.SeasonArchive, error) {
	archives, err := s.archiveRepo.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return archives, nil
}
