package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/pkg/database"
)

// postgresRepository is the concrete implementation of rewards.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL-backed rewards repository
func NewPostgresRepository(pool *pgxpool.Pool) rewards.Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// SNAPSHOT
// ========================================

// Snapshot reads every balance input in one statement. The subselects
// share the statement's MVCC snapshot, so the figures are mutually
// consistent at the instant of the read.
func (r *postgresRepository) Snapshot(ctx context.Context, userID uuid.UUID) (*rewards.BalanceSnapshot, error) {
	query := `
		SELECT
			u.withdrawn_points,
			COALESCE((SELECT SUM(points) FROM reports
				WHERE collector_id = u.id AND status = 'approved'), 0),
			COALESCE((SELECT SUM(points) FROM incident_rewards
				WHERE user_id = u.id), 0),
			(SELECT COUNT(*) FROM reports
				WHERE collector_id = u.id AND status = 'pending')
		FROM users u
		WHERE u.id = $1
	`

	var snap rewards.BalanceSnapshot
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&snap.WithdrawnPoints,
		&snap.ReportPoints,
		&snap.IncidentPoints,
		&snap.PendingReports,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rewards.ErrUserNotFound
		}
		return nil, fmt.Errorf("read balance snapshot: %w", err)
	}

	return &snap, nil
}

// ========================================
// ACTIVITY FEED SOURCES
// ========================================

func (r *postgresRepository) RecentReportCredits(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	query := `
		SELECT id, points, verified_at
		FROM reports
		WHERE collector_id = $1 AND status = 'approved'
		ORDER BY verified_at DESC
		LIMIT $2
	`
	return r.scanFeed(ctx, query, userID, limit, func(row pgx.Rows, t *rewards.Transaction) error {
		if err := row.Scan(&t.ID, &t.AmountPoints, &t.CreatedAt); err != nil {
			return err
		}
		t.Type = rewards.TransactionEarned
		t.Status = "approved"
		t.Description = "Waste collection report approved"
		return nil
	})
}

func (r *postgresRepository) RecentIncidentCredits(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	query := `
		SELECT id, points, created_at
		FROM incident_rewards
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.scanFeed(ctx, query, userID, limit, func(row pgx.Rows, t *rewards.Transaction) error {
		if err := row.Scan(&t.ID, &t.AmountPoints, &t.CreatedAt); err != nil {
			return err
		}
		t.Type = rewards.TransactionEarned
		t.Status = "granted"
		t.Description = "Incident resolution reward"
		return nil
	})
}

func (r *postgresRepository) RecentWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	query := `
		SELECT id, amount_points, status, payment_method, created_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.scanFeed(ctx, query, userID, limit, func(row pgx.Rows, t *rewards.Transaction) error {
		var method string
		if err := row.Scan(&t.ID, &t.AmountPoints, &t.Status, &method, &t.CreatedAt); err != nil {
			return err
		}
		t.Type = rewards.TransactionWithdrawn
		t.Description = fmt.Sprintf("Withdrawal via %s", method)
		return nil
	})
}

func (r *postgresRepository) scanFeed(
	ctx context.Context,
	query string,
	userID uuid.UUID,
	limit int,
	scan func(pgx.Rows, *rewards.Transaction) error,
) ([]rewards.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity feed: %w", err)
	}
	defer rows.Close()

	feed := []rewards.Transaction{}
	for rows.Next() {
		var t rewards.Transaction
		if err := scan(rows, &t); err != nil {
			return nil, fmt.Errorf("scan activity feed: %w", err)
		}
		feed = append(feed, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity feed: %w", err)
	}

	return feed, nil
}

// ========================================
// WITHDRAWAL
// ========================================

// Withdraw is the one write path that touches withdrawn_points. The
// balance guard lives inside the UPDATE itself: the increment applies
// only if the resulting counter still fits under lifetime points, with
// lifetime recomputed in the same statement. Two concurrent requests
// therefore serialize on the row and the loser sees the fresh counter.
func (r *postgresRepository) Withdraw(ctx context.Context, userID uuid.UUID, amountPoints int64, amountRupees decimal.Decimal, method, details string) (*rewards.Withdrawal, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*rewards.Withdrawal, error) {
		// STEP 1: guarded atomic increment
		var newWithdrawn int64
		err := tx.QueryRow(ctx, `
			UPDATE users u SET
				withdrawn_points = withdrawn_points + $2,
				updated_at = NOW()
			WHERE u.id = $1
			  AND u.withdrawn_points + $2 <= (
				COALESCE((SELECT SUM(points) FROM reports
					WHERE collector_id = u.id AND status = 'approved'), 0) +
				COALESCE((SELECT SUM(points) FROM incident_rewards
					WHERE user_id = u.id), 0)
			  )
			RETURNING withdrawn_points
		`, userID, amountPoints).Scan(&newWithdrawn)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, r.classifyWithdrawFailure(ctx, tx, userID)
			}
			return nil, fmt.Errorf("increment withdrawn points: %w", err)
		}

		// STEP 2: ledger append in the same transaction, so the counter
		// and the ledger can never diverge on this path
		w := &rewards.Withdrawal{
			UserID:         userID,
			AmountPoints:   amountPoints,
			AmountRupees:   amountRupees,
			PaymentMethod:  method,
			PaymentDetails: details,
			Status:         rewards.WithdrawalStatusCompleted,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO withdrawals (
				user_id, amount_points, amount_rupees,
				payment_method, payment_details, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at
		`, userID, amountPoints, amountRupees, method, details, w.Status).Scan(&w.ID, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert withdrawal: %w", err)
		}

		return w, nil
	})
}

func (r *postgresRepository) classifyWithdrawFailure(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("classify withdrawal failure: %w", err)
	}
	if !exists {
		return rewards.ErrUserNotFound
	}
	return rewards.ErrInsufficientBalance
}

// ========================================
// LEDGER READS
// ========================================

func (r *postgresRepository) ListWithdrawals(ctx context.Context, userID *uuid.UUID, filter rewards.WithdrawalFilter) ([]rewards.Withdrawal, error) {
	query := `
		SELECT id, user_id, amount_points, amount_rupees,
			payment_method, payment_details, status, created_at
		FROM withdrawals
	`
	args := []interface{}{}
	argPos := 1

	if userID != nil {
		query += fmt.Sprintf(" WHERE user_id = $%d", argPos)
		args = append(args, *userID)
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
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	withdrawals := []rewards.Withdrawal{}
	for rows.Next() {
		var w rewards.Withdrawal
		err := rows.Scan(
			&w.ID, &w.UserID, &w.AmountPoints, &w.AmountRupees,
			&w.PaymentMethod, &w.PaymentDetails, &w.Status, &w.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}

	return withdrawals, nil
}

// ========================================
// RECONCILIATION
// ========================================

// WithdrawnDrift compares the denormalized counter against the ledger.
// Since the withdrawal path writes both in one transaction, any row here
// points at out-of-band writes and deserves a human look.
func (r *postgresRepository) WithdrawnDrift(ctx context.Context, limit int) ([]rewards.Drift, error) {
	query := `
		SELECT u.id, u.withdrawn_points, COALESCE(SUM(w.amount_points), 0) AS ledger_sum
		FROM users u
		LEFT JOIN withdrawals w ON w.user_id = u.id
		GROUP BY u.id, u.withdrawn_points
		HAVING u.withdrawn_points <> COALESCE(SUM(w.amount_points), 0)
		ORDER BY u.id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query withdrawn drift: %w", err)
	}
	defer rows.Close()

	drifts := []rewards.Drift{}
	for rows.Next() {
		var d rewards.Drift
		if err := rows.Scan(&d.UserID, &d.Counter, &d.LedgerSum); err != nil {
			return nil, fmt.Errorf("scan drift: %w", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drift: %w", err)
	}

	return drifts, nil
}
