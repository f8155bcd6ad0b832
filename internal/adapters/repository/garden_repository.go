package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/ports"
)

// GardenRepositoryImpl implements the GardenRepository interface
type GardenRepositoryImpl struct {
	db *sqlx.DB
}

// NewGardenRepository creates a new garden repository
func NewGardenRepository(db *sqlx.DB) ports.GardenRepository {
	return &GardenRepositoryImpl{db: db}
}

func (r *GardenRepositoryImpl) Create(ctx context.Context, garden *entities.Garden) error {
	query := `
		INSERT INTO gardens (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		garden.ID, garden.OwnerID, garden.Name, garden.CreatedAt, garden.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create garden: %w", err)
	}

	return nil
}

func (r *GardenRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Garden, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM gardens
		WHERE id = $1`

	var garden entities.Garden
	err := r.db.GetContext(ctx, &garden, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrGardenNotFound
		}
		return nil, fmt.Errorf("get garden: %w", err)
	}

	zones, err := r.loadZones(ctx, id)
	if err != nil {
		return nil, err
	}
	garden.Zones = zones

	return &garden, nil
}

func (r *GardenRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Garden, error) {
	query := `
		SELECT id, owner_id, name, created_at, updated_at
		FROM gardens
		WHERE owner_id = $1
		ORDER BY created_at`

	var gardens []*entities.Garden
	if err := r.db.SelectContext(ctx, &gardens, query, ownerID); err != nil {
		return nil, fmt.Errorf("list gardens: %w", err)
	}

	for _, g := range gardens {
		zones, err := r.loadZones(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		g.Zones = zones
	}

	return gardens, nil
}

func (r *GardenRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gardens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete garden: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrGardenNotFound
	}

	return nil
}

func (r *GardenRepositoryImpl) CreateZone(ctx context.Context, zone *entities.Zone) error {
	query := `
		INSERT INTO zones (id, garden_id, plant_id, x, y, width_cm, height_cm, status, season, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		zone.ID, zone.GardenID, zone.PlantID, zone.X, zone.Y, zone.WidthCm, zone.HeightCm,
		zone.Status, zone.Season, zone.CreatedAt, zone.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create zone: %w", err)
	}

	return nil
}

func (r *GardenRepositoryImpl) GetZone(ctx context.Context, gardenID, zoneID uuid.UUID) (*entities.Zone, error) {
	query := `
		SELECT id, garden_id, plant_id, x, y, width_cm, height_cm, status, season, created_at, updated_at
		FROM zones
		WHERE id = $1 AND garden_id = $2`

	var zone entities.Zone
	err := r.db.GetContext(ctx, &zone, query, zoneID, gardenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrZoneNotFound
		}
		return nil, fmt.Errorf("get zone: %w", err)
	}

	if err := r.hydrateZone(ctx, &zone); err != nil {
		return nil, err
	}

	return &zone, nil
}

func (r *GardenRepositoryImpl) UpdateZoneStatus(ctx context.Context, zone *entities.Zone) error {
	query := `
		UPDATE zones
		SET status = $1, season = $2, updated_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, zone.Status, zone.Season, zone.UpdatedAt, zone.ID)
	if err != nil {
		return fmt.Errorf("update zone status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrZoneNotFound
	}

	return nil
}

func (r *GardenRepositoryImpl) AppendZoneEvent(ctx context.Context, zoneID uuid.UUID, event entities.ZoneEvent) error {
	query := `
		INSERT INTO zone_events (zone_id, event_type, occurred_at, note)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, zoneID, event.Type, event.OccurredAt, event.Note)
	if err != nil {
		return fmt.Errorf("append zone event: %w", err)
	}

	return nil
}

func (r *GardenRepositoryImpl) SetTaskCompletion(ctx context.Context, zoneID uuid.UUID, templateID string, completedAt *time.Time) error {
	if completedAt == nil {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM zone_completed_tasks WHERE zone_id = $1 AND template_id = $2`,
			zoneID, templateID)
		if err != nil {
			return fmt.Errorf("clear task completion: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO zone_completed_tasks (zone_id, template_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (zone_id, template_id) DO UPDATE SET completed_at = EXCLUDED.completed_at`

	_, err := r.db.ExecContext(ctx, query, zoneID, templateID, *completedAt)
	if err != nil {
		return fmt.Errorf("set task completion: %w", err)
	}

	return nil
}

func (r *GardenRepositoryImpl) DeleteZone(ctx context.Context, gardenID, zoneID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM zones WHERE id = $1 AND garden_id = $2`, zoneID, gardenID)
	if err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return entities.ErrZoneNotFound
	}

	return nil
}

// loadZones fetches a garden's zones with their events and completion
// records. Events come back in insertion order; the log is append-only.
func (r *GardenRepositoryImpl) loadZones(ctx context.Context, gardenID uuid.UUID) ([]entities.Zone, error) {
	query := `
		SELECT id, garden_id, plant_id, x, y, width_cm, height_cm, status, season, created_at, updated_at
		FROM zones
		WHERE garden_id = $1
		ORDER BY created_at`

	var zones []entities.Zone
	if err := r.db.SelectContext(ctx, &zones, query, gardenID); err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}

	for i := range zones {
		if err := r.hydrateZone(ctx, &zones[i]); err != nil {
			return nil, err
		}
	}

	return zones, nil
}

func (r *GardenRepositoryImpl) hydrateZone(ctx context.Context, zone *entities.Zone) error {
	eventsQuery := `
		SELECT event_type, occurred_at, note
		FROM zone_events
		WHERE zone_id = $1
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &zone.Events, eventsQuery, zone.ID); err != nil {
		return fmt.Errorf("load zone events: %w", err)
	}

	completionsQuery := `
		SELECT template_id, completed_at
		FROM zone_completed_tasks
		WHERE zone_id = $1`

	rows, err := r.db.QueryxContext(ctx, completionsQuery, zone.ID)
	if err != nil {
		return fmt.Errorf("load task completions: %w", err)
	}
	defer rows.Close()

	zone.CompletedTasks = make(map[string]time.Time)
	for rows.Next() {
		var templateID string
		var completedAt time.Time
		if err := rows.Scan(&templateID, &completedAt); err != nil {
			return fmt.Errorf("scan task completion: %w", err)
		}
		zone.CompletedTasks[templateID] = completedAt
	}

	return rows.Err()
}
