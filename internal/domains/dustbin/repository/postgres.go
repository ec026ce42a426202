package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecowaste-backend/internal/domains/dustbin"
	"ecowaste-backend/pkg/cache"
)

const (
	listCacheTTL = 2 * time.Minute
)

// postgresRepository is the concrete implementation of dustbin.Repository
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates the PostgreSQL-backed dustbin repository
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) dustbin.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Create(ctx context.Context, d *dustbin.Dustbin) (uuid.UUID, error) {
	query := `
		INSERT INTO dustbins (
			name, latitude, longitude, capacity_liters,
			fill_level, status, photo_base64, photo_history,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	historyJSON, err := json.Marshal(d.PhotoHistory)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal photo history: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx, query,
		d.Name,
		d.Latitude,
		d.Longitude,
		d.CapacityLiters,
		d.FillLevel,
		d.Status,
		d.PhotoBase64,
		historyJSON,
		d.CreatedAt,
		d.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create dustbin: %w", err)
	}

	r.invalidateListCache(ctx)

	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*dustbin.Dustbin, error) {
	query := `
		SELECT
			id, name, latitude, longitude, capacity_liters,
			fill_level, status, photo_base64, photo_history,
			created_at, updated_at
		FROM dustbins
		WHERE id = $1
	`

	d, err := scanDustbin(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dustbin.ErrDustbinNotFound
		}
		return nil, fmt.Errorf("find dustbin: %w", err)
	}

	return d, nil
}

// List returns bins ordered by name, optionally filtered by status.
// The unfiltered map view is hot on the mobile client, so it goes
// through the cache.
func (r *postgresRepository) List(ctx context.Context, filter dustbin.ListFilter) ([]dustbin.Dustbin, error) {
	cacheKey := fmt.Sprintf("dustbin:list:%s", filter.Status)

	var cached []dustbin.Dustbin
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	query := `
		SELECT
			id, name, latitude, longitude, capacity_liters,
			fill_level, status, photo_base64, photo_history,
			created_at, updated_at
		FROM dustbins
	`
	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dustbins: %w", err)
	}
	defer rows.Close()

	bins := []dustbin.Dustbin{}
	for rows.Next() {
		d, err := scanDustbin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dustbin: %w", err)
		}
		bins = append(bins, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dustbins: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, bins, listCacheTTL)

	return bins, nil
}

// Update changes fill level and/or status; nil fields are left untouched
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, fillLevel *int, status *dustbin.Status) (*dustbin.Dustbin, error) {
	query := `
		UPDATE dustbins SET
			fill_level = COALESCE($2, fill_level),
			status     = COALESCE($3, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING
			id, name, latitude, longitude, capacity_liters,
			fill_level, status, photo_base64, photo_history,
			created_at, updated_at
	`

	d, err := scanDustbin(r.pool.QueryRow(ctx, query, id, fillLevel, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dustbin.ErrDustbinNotFound
		}
		return nil, fmt.Errorf("update dustbin: %w", err)
	}

	r.invalidateListCache(ctx)

	return d, nil
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	// Drop the unfiltered view plus every per-status view
	keys := []string{"dustbin:list:"}
	for _, s := range dustbin.ValidStatuses {
		keys = append(keys, fmt.Sprintf("dustbin:list:%s", s))
	}
	_ = r.cache.Delete(ctx, keys...)
}

func scanDustbin(row pgx.Row) (*dustbin.Dustbin, error) {
	var d dustbin.Dustbin
	var historyJSON []byte

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Latitude,
		&d.Longitude,
		&d.CapacityLiters,
		&d.FillLevel,
		&d.Status,
		&d.PhotoBase64,
		&historyJSON,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &d.PhotoHistory); err != nil {
			return nil, fmt.Errorf("unmarshal photo history: %w", err)
		}
	}

	return &d, nil
}
