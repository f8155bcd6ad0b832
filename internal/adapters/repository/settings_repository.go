package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/ports"
)

// SettingsRepositoryImpl implements the SettingsRepository interface
type SettingsRepositoryImpl struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) ports.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context, userID uuid.UUID) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, postcode, knmi_station_code, frost_offset_days, updated_at
		FROM user_settings
		WHERE user_id = $1`

	var settings entities.UserSettings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get user settings: %w", err)
	}

	return &settings, nil
}

func (r *SettingsRepositoryImpl) Upsert(ctx context.Context, settings *entities.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, postcode, knmi_station_code, frost_offset_days, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			postcode = EXCLUDED.postcode,
			knmi_station_code = EXCLUDED.knmi_station_code,
			frost_offset_days = EXCLUDED.frost_offset_days,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		settings.UserID, settings.Postcode, settings.KNMIStationCode,
		settings.FrostOffsetDays, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}

	return nil
}
