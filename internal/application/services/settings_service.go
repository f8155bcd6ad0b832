package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/frost"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// SettingsService manages the per-user regional settings consumed by
// the frost adjuster.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	stations     *frost.Index
	logger       *logger.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo ports.SettingsRepository, stations *frost.Index, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		stations:     stations,
		logger:       logger,
	}
}

// Get returns a user's settings, or defaults when none are stored.
// Missing settings are not an error anywhere in the planner.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*entities.UserSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		return &entities.UserSettings{UserID: userID}, nil
	}
	return settings, nil
}

// Update stores a user's settings. When no station code is given
// explicitly it is derived from the postcode; an unusable postcode
// resolves to the reference station.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, req ports.UpdateSettingsRequest) (*entities.UserSettings, error) {
	settings := &entities.UserSettings{
		UserID:          userID,
		Postcode:        req.Postcode,
		KNMIStationCode: req.KNMIStationCode,
		FrostOffsetDays: req.FrostOffsetDays,
		UpdatedAt:       time.Now(),
	}
	if settings.KNMIStationCode == nil && req.Postcode != nil {
		station := s.stations.StationByPostcode(*req.Postcode)
		settings.KNMIStationCode = &station.Code
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("Settings updated",
		"user_id", userID,
		"station", stringOrEmpty(settings.KNMIStationCode),
		"frost_offset_days", settings.FrostOffsetDays)

	return settings, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
