package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// GardenService handles garden and zone CRUD. The planner treats the
// garden as a snapshot; this service owns the canonical copy.
type GardenService struct {
	gardenRepo ports.GardenRepository
	catalog    ports.SpeciesCatalog
	logger     *logger.Logger
}

// NewGardenService creates a new garden service.
func NewGardenService(gardenRepo ports.GardenRepository, catalog ports.SpeciesCatalog, logger *logger.Logger) *GardenService {
	return &GardenService{
		gardenRepo: gardenRepo,
		catalog:    catalog,
		logger:     logger,
	}
}

// CreateGarden creates an empty garden.
func (s *GardenService) CreateGarden(ctx context.Context, req ports.CreateGardenRequest) (*entities.Garden, error) {
	garden := &entities.Garden{
		ID:        uuid.New(),
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.gardenRepo.Create(ctx, garden); err != nil {
		return nil, fmt.Errorf("failed to create garden: %w", err)
	}

	s.logger.Info("Garden created", "garden_id", garden.ID, "name", garden.Name)

	return garden, nil
}

// GetGarden loads a garden snapshot including zones, events and
// completion records.
func (s *GardenService) GetGarden(ctx context.Context, id uuid.UUID) (*entities.Garden, error) {
	garden, err := s.gardenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("garden not found: %w", err)
	}
	return garden, nil
}

// ListGardens returns all gardens of an owner.
func (s *GardenService) ListGardens(ctx context.Context, ownerID uuid.UUID) ([]*entities.Garden, error) {
	gardens, err := s.gardenRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gardens: %w", err)
	}
	return gardens, nil
}

// DeleteGarden removes a garden and its zones.
func (s *GardenService) DeleteGarden(ctx context.Context, id uuid.UUID) error {
	if _, err := s.gardenRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("garden not found: %w", err)
	}
	if err := s.gardenRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete garden: %w", err)
	}

	s.logger.Info("Garden deleted", "garden_id", id)

	return nil
}

// CreateZone plants a new zone in a garden. Unknown species are
// allowed; the planner simply skips them until the catalog knows the
// id.
func (s *GardenService) CreateZone(ctx context.Context, gardenID uuid.UUID, req ports.CreateZoneRequest) (*entities.Zone, error) {
	if _, err := s.gardenRepo.GetByID(ctx, gardenID); err != nil {
		return nil, fmt.Errorf("garden not found: %w", err)
	}

	zone := &entities.Zone{
		ID:        uuid.New(),
		GardenID:  gardenID,
		PlantID:   req.PlantID,
		X:         req.X,
		Y:         req.Y,
		WidthCm:   req.WidthCm,
		HeightCm:  req.HeightCm,
		Status:    entities.StatusPlanned,
		Season:    time.Now().Year(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.gardenRepo.CreateZone(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	if _, known := s.catalog.SpeciesByID(req.PlantID); !known {
		s.logger.Warn("Zone planted with unknown species", "zone_id", zone.ID, "plant_id", req.PlantID)
	}

	s.logger.Info("Zone created", "garden_id", gardenID, "zone_id", zone.ID, "plant_id", req.PlantID)

	return zone, nil
}

// DeleteZone removes a zone from a garden.
func (s *GardenService) DeleteZone(ctx context.Context, gardenID, zoneID uuid.UUID) error {
	if _, err := s.gardenRepo.GetZone(ctx, gardenID, zoneID); err != nil {
		return fmt.Errorf("zone not found: %w", err)
	}
	if err := s.gardenRepo.DeleteZone(ctx, gardenID, zoneID); err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	s.logger.Info("Zone deleted", "garden_id", gardenID, "zone_id", zoneID)

	return nil
}
