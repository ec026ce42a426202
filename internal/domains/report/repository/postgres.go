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
	"github.com/shopspring/decimal"

	"ecowaste-backend/internal/domains/dustbin"
	"ecowaste-backend/internal/domains/report"
	"ecowaste-backend/pkg/database"
)

const reportColumns = `
	id, collector_id, dustbin_id,
	pickup_image, disposal_image,
	pickup_lat, pickup_lng, disposal_lat, disposal_lng,
	description, status, points, waste_weight_kg,
	disposal_distance_m, dustbin_snapshot,
	verified_by, verification_comment, verified_at,
	created_at, updated_at
`

// postgresRepository is the concrete implementation of report.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL-backed report repository
func NewPostgresRepository(pool *pgxpool.Pool) report.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, rp *report.Report) (uuid.UUID, error) {
	query := `
		INSERT INTO reports (
			collector_id, dustbin_id,
			pickup_image, disposal_image,
			pickup_lat, pickup_lng, disposal_lat, disposal_lng,
			description, status, points,
			disposal_distance_m, dustbin_snapshot,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15
		)
		RETURNING id
	`

	var snapshotJSON []byte
	if rp.DustbinSnapshot != nil {
		var err error
		snapshotJSON, err = json.Marshal(rp.DustbinSnapshot)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal dustbin snapshot: %w", err)
		}
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		rp.CollectorID,
		rp.DustbinID,
		rp.PickupImage,
		rp.DisposalImage,
		rp.PickupLat,
		rp.PickupLng,
		rp.DisposalLat,
		rp.DisposalLng,
		rp.Description,
		rp.Status,
		rp.Points,
		rp.DisposalDistanceM,
		snapshotJSON,
		rp.CreatedAt,
		rp.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create report: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	rp, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}

	return rp, nil
}

func (r *postgresRepository) List(ctx context.Context, filter report.ListFilter) ([]report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.CollectorID != nil {
		query += fmt.Sprintf(" AND collector_id = $%d", argPos)
		args = append(args, *filter.CollectorID)
		argPos++
	}
	if filter.DustbinID != nil {
		query += fmt.Sprintf(" AND dustbin_id = $%d", argPos)
		args = append(args, *filter.DustbinID)
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
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// ListStalePending feeds the follow-up job with reports stuck in pending
func (r *postgresRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]report.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// ========================================
// VERIFICATION TRANSITIONS
// ========================================

// Approve runs the whole approval as one transaction.
// The status guard in the UPDATE is what makes concurrent verifications
// safe: only one request can move the row out of pending.
func (r *postgresRepository) Approve(ctx context.Context, id, verifierID uuid.UUID, points int64, comment string, derivedWeight decimal.Decimal) (*report.Report, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*report.Report, error) {
		// STEP 1: transition pending -> approved, derive weight if unset
		query := `
			UPDATE reports SET
				status = 'approved',
				points = $2,
				waste_weight_kg = COALESCE(waste_weight_kg, $3),
				verified_by = $4,
				verification_comment = $5,
				verified_at = NOW(),
				updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + reportColumns

		rp, err := scanReport(tx.QueryRow(ctx, query, id, points, derivedWeight, verifierID, comment))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, r.classifyMissedUpdate(ctx, tx, id)
			}
			return nil, fmt.Errorf("approve report: %w", err)
		}

		// STEP 2: advance the linked dustbin's photo history under row lock
		if rp.DustbinID != nil && rp.DisposalImage != "" {
			if err := r.pushDustbinPhoto(ctx, tx, *rp.DustbinID, rp.DisposalImage); err != nil {
				return nil, err
			}
		}

		return rp, nil
	})
}

func (r *postgresRepository) Reject(ctx context.Context, id, verifierID uuid.UUID, comment string) (*report.Report, error) {
	query := `
		UPDATE reports SET
			status = 'rejected',
			verified_by = $2,
			verification_comment = $3,
			verified_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + reportColumns

	rp, err := scanReport(r.pool.QueryRow(ctx, query, id, verifierID, comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, r.pool, id)
		}
		return nil, fmt.Errorf("reject report: %w", err)
	}

	return rp, nil
}

// ========================================
// HELPERS
// ========================================

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// classifyMissedUpdate decides whether a guarded UPDATE matched nothing
// because the row is missing or because it already left pending
func (r *postgresRepository) classifyMissedUpdate(ctx context.Context, q queryRower, id uuid.UUID) error {
	var status report.Status
	err := q.QueryRow(ctx, `SELECT status FROM reports WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.ErrReportNotFound
		}
		return fmt.Errorf("classify report state: %w", err)
	}
	return report.ErrInvalidReportState
}

// pushDustbinPhoto archives the bin's current photo into its bounded
// history and installs the disposal image, all inside the caller's
// transaction. FOR UPDATE serializes concurrent approvals on one bin.
func (r *postgresRepository) pushDustbinPhoto(ctx context.Context, tx pgx.Tx, dustbinID uuid.UUID, disposalImage string) error {
	var d dustbin.Dustbin
	var historyJSON []byte

	err := tx.QueryRow(ctx,
		`SELECT photo_base64, photo_history FROM dustbins WHERE id = $1 FOR UPDATE`,
		dustbinID,
	).Scan(&d.PhotoBase64, &historyJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Dustbin deleted since submission; approval still stands
			return nil
		}
		return fmt.Errorf("lock dustbin: %w", err)
	}

	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &d.PhotoHistory); err != nil {
			return fmt.Errorf("unmarshal photo history: %w", err)
		}
	}

	d.PushPhoto(disposalImage)

	newHistory, err := json.Marshal(d.PhotoHistory)
	if err != nil {
		return fmt.Errorf("marshal photo history: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE dustbins SET photo_base64 = $2, photo_history = $3, updated_at = NOW() WHERE id = $1`,
		dustbinID, d.PhotoBase64, newHistory,
	)
	if err != nil {
		return fmt.Errorf("update dustbin photo: %w", err)
	}

	return nil
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var rp report.Report
	var snapshotJSON []byte

	err := row.Scan(
		&rp.ID,
		&rp.CollectorID,
		&rp.DustbinID,
		&rp.PickupImage,
		&rp.DisposalImage,
		&rp.PickupLat,
		&rp.PickupLng,
		&rp.DisposalLat,
		&rp.DisposalLng,
		&rp.Description,
		&rp.Status,
		&rp.Points,
		&rp.WasteWeightKg,
		&rp.DisposalDistanceM,
		&snapshotJSON,
		&rp.VerifiedBy,
		&rp.VerificationComment,
		&rp.VerifiedAt,
		&rp.CreatedAt,
		&rp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(snapshotJSON) > 0 {
		var snap dustbin.Snapshot
		if err := json.Unmarshal(snapshotJSON, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal dustbin snapshot: %w", err)
		}
		rp.DustbinSnapshot = &snap
	}

	return &rp, nil
}
