package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecowaste-backend/internal/domains/incident"
	"ecowaste-backend/pkg/database"
)

const incidentColumns = `
	id, reporter_id, title, description, category, urgency,
	latitude, longitude, status, rewarded, created_at, updated_at
`

// postgresRepository is the concrete implementation of incident.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL-backed incident repository
func NewPostgresRepository(pool *pgxpool.Pool) incident.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, in *incident.Incident) (uuid.UUID, error) {
	query := `
		INSERT INTO incidents (
			reporter_id, title, description, category, urgency,
			latitude, longitude, status, rewarded, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		in.ReporterID,
		in.Title,
		in.Description,
		in.Category,
		in.Urgency,
		in.Latitude,
		in.Longitude,
		in.Status,
		in.Rewarded,
		in.CreatedAt,
		in.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create incident: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`

	in, err := scanIncident(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incident.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("find incident: %w", err)
	}

	return in, nil
}

func (r *postgresRepository) List(ctx context.Context, filter incident.ListFilter) ([]incident.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.ReporterID != nil {
		query += fmt.Sprintf(" AND reporter_id = $%d", argPos)
		args = append(args, *filter.ReporterID)
		argPos++
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	incidents := []incident.Incident{}
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}

	return incidents, nil
}

// UpdateStatus advances the lifecycle. The guard keeps terminal
// incidents frozen.
func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status incident.Status) (*incident.Incident, error) {
	query := `
		UPDATE incidents SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('resolved', 'dismissed')
		RETURNING ` + incidentColumns

	in, err := scanIncident(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the incident is missing or it already reached a
			// terminal state
			var exists bool
			if checkErr := r.pool.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM incidents WHERE id = $1)`, id,
			).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("classify incident state: %w", checkErr)
			}
			if !exists {
				return nil, incident.ErrIncidentNotFound
			}
			return nil, incident.ErrTerminalStatus
		}
		return nil, fmt.Errorf("update incident status: %w", err)
	}

	return in, nil
}

// ========================================
// REWARD GATE
// ========================================

// Award makes the reward grant at-most-once. The conditional UPDATE is
// the gate: only one concurrent request can flip rewarded to true. The
// UNIQUE constraint on incident_rewards.incident_id backstops the flag.
func (r *postgresRepository) Award(ctx context.Context, incidentID uuid.UUID, points int64, note string) (*incident.Reward, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*incident.Reward, error) {
		// STEP 1: flip the flag only while resolved and unrewarded
		var reporterID *uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE incidents SET
				rewarded = true,
				updated_at = NOW()
			WHERE id = $1 AND status = 'resolved' AND rewarded = false
			RETURNING reporter_id
		`, incidentID).Scan(&reporterID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, r.classifyAwardFailure(ctx, tx, incidentID)
			}
			return nil, fmt.Errorf("flag incident rewarded: %w", err)
		}

		// STEP 2: the grant needs somebody to credit; rolling back here
		// leaves the flag untouched
		if reporterID == nil {
			return nil, incident.ErrReporterMissing
		}

		// STEP 3: append the grant record
		reward := &incident.Reward{
			IncidentID: incidentID,
			UserID:     *reporterID,
			Points:     points,
			Note:       note,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO incident_rewards (incident_id, user_id, points, note, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, created_at
		`, incidentID, *reporterID, points, note).Scan(&reward.ID, &reward.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, incident.ErrAlreadyRewarded
			}
			return nil, fmt.Errorf("insert incident reward: %w", err)
		}

		return reward, nil
	})
}

func (r *postgresRepository) classifyAwardFailure(ctx context.Context, tx pgx.Tx, incidentID uuid.UUID) error {
	var status incident.Status
	var rewarded bool
	err := tx.QueryRow(ctx,
		`SELECT status, rewarded FROM incidents WHERE id = $1`, incidentID,
	).Scan(&status, &rewarded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return incident.ErrIncidentNotFound
		}
		return fmt.Errorf("classify incident state: %w", err)
	}
	if rewarded {
		return incident.ErrAlreadyRewarded
	}
	return incident.ErrIncidentNotResolved
}

func scanIncident(row pgx.Row) (*incident.Incident, error) {
	var in incident.Incident
	err := row.Scan(
		&in.ID,
		&in.ReporterID,
		&in.Title,
		&in.Description,
		&in.Category,
		&in.Urgency,
		&in.Latitude,
		&in.Longitude,
		&in.Status,
		&in.Rewarded,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}
