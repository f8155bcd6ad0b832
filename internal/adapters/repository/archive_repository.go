package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/ports"
)

// ArchiveRepositoryImpl implements the ArchiveRepository interface.
// Archived zones are frozen snapshots, stored as a JSONB document per
// season rather than as rows.
type ArchiveRepositoryImpl struct {
	db *sqlx.DB
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(db *sqlx.DB) ports.ArchiveRepository {
	return &ArchiveRepositoryImpl{db: db}
}

func (r *ArchiveRepositoryImpl) Save(ctx context.Context, archive *entities.SeasonArchive) error {
	zones, err := json.Marshal(archive.Zones)
	if err != nil {
		return fmt.Errorf("marshal archived zones: %w", err)
	}

	query := `
		INSERT INTO season_archives (id, garden_id, season_year, zones, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (garden_id, season_year) DO UPDATE SET
			zones = EXCLUDED.zones,
			created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		archive.ID, archive.GardenID, archive.SeasonYear, zones, archive.CreatedAt)
	if err != nil {
		return fmt.Errorf("save season archive: %w", err)
	}

	return nil
}

func (r *ArchiveRepositoryImpl) ListByGarden(ctx context.Context, gardenID uuid.UUID) ([]entities.SeasonArchive, error) {
	query := `
		SELECT id, garden_id, season_year, zones, created_at
		FROM season_archives
		WHERE garden_id = $1
		ORDER BY season_year DESC`

	rows, err := r.db.QueryxContext(ctx, query, gardenID)
	if err != nil {
		return nil, fmt.Errorf("list season archives: %w", err)
	}
	defer rows.Close()

	var archives []entities.SeasonArchive
	for rows.Next() {
		archive, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		archives = append(archives, archive)
	}

	return archives, rows.Err()
}

func (r *ArchiveRepositoryImpl) GetByYear(ctx context.Context, gardenID uuid.UUID, seasonYear int) (*entities.SeasonArchive, error) {
	query := `
		SELECT id, garden_id, season_year, zones, created_at
		FROM season_archives
		WHERE garden_id = $1 AND season_year = $2`

	rows, err := r.db.QueryxContext(ctx, query, gardenID, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("get season archive: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get season archive: %w", err)
		}
		return nil, entities.ErrArchiveNotFound
	}

	archive, err := scanArchive(rows)
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArchive(row rowScanner) (entities.SeasonArchive, error) {
	var (
		archive entities.SeasonArchive
		zones   []byte
	)
	var createdAt time.Time
	if err := row.Scan(&archive.ID, &archive.GardenID, &archive.SeasonYear, &zones, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return archive, entities.ErrArchiveNotFound
		}
		return archive, fmt.Errorf("scan season archive: %w", err)
	}
	archive.CreatedAt = createdAt

	if err := json.Unmarshal(zones, &archive.Zones); err != nil {
		return archive, fmt.Errorf("unmarshal archived zones: %w", err)
	}

	return archive, nil
}
