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

// ZoneService owns zone lifecycle changes and task-completion toggles.
// Transitions are never blocked; the planning engine only suggests
// them, and any caller may set any status at any time.
type ZoneService struct {
	gardenRepo ports.GardenRepository
	logger     *logger.Logger
	now        func() time.Time
}

// NewZoneService creates a new zone service.
func NewZoneService(gardenRepo ports.GardenRepository, logger *logger.Logger) *ZoneService {
	return &ZoneService{
		gardenRepo: gardenRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// SetStatus changes a zone's lifecycle status. Every change appends
// exactly one event to the zone's log and stamps the zone's season
// with the current year.
func (s *ZoneService) SetStatus(ctx context.Context, gardenID, zoneID uuid.UUID, req ports.SetZoneStatusRequest) (*entities.Zone, error) {
	if !req.Status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	zone, err := s.gardenRepo.GetZone(ctx, gardenID, zoneID)
	if err != nil {
		return nil, fmt.Errorf("zone not found: %w", err)
	}

	now := s.now()
	event := entities.ZoneEvent{
		Type:       entities.EventTypeForStatus(req.Status),
		OccurredAt: now,
		Note:       req.Note,
	}

	zone.Status = req.Status
	zone.Season = now.Year()
	zone.UpdatedAt = now
	zone.Events = append(zone.Events, event)

	if err := s.gardenRepo.UpdateZoneStatus(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to update zone status: %w", err)
	}
	if err := s.gardenRepo.AppendZoneEvent(ctx, zoneID, event); err != nil {
		return nil, fmt.Errorf("failed to append zone event: %w", err)
	}

	s.logger.Info("Zone status changed",
		"garden_id", gardenID, "zone_id", zoneID,
		"status", req.Status, "event", event.Type)

	return zone, nil
}

// ToggleTask flips a task-template completion on a zone. Completing
// records the current timestamp; toggling a completed task clears it.
func (s *ZoneService) ToggleTask(ctx context.Context, gardenID, zoneID uuid.UUID, templateID string) (*entities.Zone, error) {
	zone, err := s.gardenRepo.GetZone(ctx, gardenID, zoneID)
	if err != nil {
		return nil, fmt.Errorf("zone not found: %w", err)
	}

	var completedAt *time.Time
	if _, done := zone.CompletedTasks[templateID]; done {
		delete(zone.CompletedTasks, templateID)
	} else {
		now := s.now()
		completedAt = &now
		if zone.CompletedTasks == nil {
			zone.CompletedTasks = make(map[string]time.Time)
		}
		zone.CompletedTasks[templateID] = now
	}

	if err := s.gardenRepo.SetTaskCompletion(ctx, zoneID, templateID, completedAt); err != nil {
		return nil, fmt.Errorf("failed to toggle task completion: %w", err)
	}

	s.logger.Info("Task completion toggled",
		"garden_id", gardenID, "zone_id", zoneID,
		"template_id", templateID, "completed", completedAt != nil)

	return zone, nil
}
