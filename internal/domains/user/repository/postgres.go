package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"ecowaste-backend/internal/domains/user"
	"ecowaste-backend/pkg/cache"
)

// postgresRepository is the concrete implementation of user.Repository.
// Hidden behind the interface so it can be swapped or faked in tests.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates the PostgreSQL-backed user repository
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// ========================================
// BASIC CRUD
// ========================================

// Create inserts a new user
func (r *postgresRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	query := `
		INSERT INTO users (
			email, password_hash, full_name, role,
			withdrawn_points, token_version,
			report_streak, max_streak, settings,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8, $9,
			$10, $11
		)
		RETURNING id
	`

	settingsJSON, err := json.Marshal(u.Settings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal settings: %w", err)
	}

	var userID uuid.UUID
	err = r.pool.QueryRow(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Role,
		u.WithdrawnPoints,
		u.TokenVersion,
		u.ReportStreak,
		u.MaxStreak,
		settingsJSON,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&userID)

	if err != nil {
		// Map the PostgreSQL unique violation onto the domain error
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && strings.Contains(pqErr.Message, "email") {
				return uuid.Nil, user.ErrEmailAlreadyExists
			}
		}
		if strings.Contains(err.Error(), "23505") {
			return uuid.Nil, user.ErrEmailAlreadyExists
		}
		return uuid.Nil, fmt.Errorf("create user: %w", err)
	}

	return userID, nil
}

// FindByID looks a user up by UUID, cache-aside through Redis
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	cacheKey := fmt.Sprintf("user:%s", id.String())

	var u user.User
	found, err := r.cache.Get(ctx, cacheKey, &u)
	if err == nil && found {
		return &u, nil
	}

	u2, err := r.scanOne(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	// Ignore cache set errors; the cache being down must not fail reads
	_ = r.cache.Set(ctx, cacheKey, u2, 15*time.Minute)

	return u2, nil
}

// FindByEmail looks a user up by email (no caching: used on login only)
func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanOne(ctx, `WHERE email = $1`, email)
}

func (r *postgresRepository) scanOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := `
		SELECT
			id, email, password_hash, full_name, role,
			withdrawn_points, token_version,
			report_streak, max_streak, last_report_at,
			settings, created_at, updated_at
		FROM users
	` + where

	var u user.User
	var settingsJSON []byte
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.WithdrawnPoints,
		&u.TokenVersion,
		&u.ReportStreak,
		&u.MaxStreak,
		&u.LastReportAt,
		&settingsJSON,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &u.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	return &u, nil
}

// ExistsByEmail checks email uniqueness before registration
func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// ========================================
// SESSION INVALIDATION
// ========================================

// TokenVersion reads the current session counter; hit on every
// authenticated request, so it goes through the cache.
func (r *postgresRepository) TokenVersion(ctx context.Context, userID uuid.UUID) (int, error) {
	cacheKey := fmt.Sprintf("user:tokenver:%s", userID.String())

	var version int
	found, err := r.cache.Get(ctx, cacheKey, &version)
	if err == nil && found {
		return version, nil
	}

	err = r.pool.QueryRow(ctx,
		`SELECT token_version FROM users WHERE id = $1`, userID,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, user.ErrUserNotFound
		}
		return 0, fmt.Errorf("read token version: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, version, 5*time.Minute)

	return version, nil
}

// BumpTokenVersion invalidates all outstanding tokens for the user
func (r *postgresRepository) BumpTokenVersion(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET token_version = token_version + 1, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	_ = r.cache.Delete(ctx,
		fmt.Sprintf("user:tokenver:%s", userID.String()),
		fmt.Sprintf("user:%s", userID.String()),
	)

	return nil
}

// ========================================
// STREAKS
// ========================================

// TouchReportStreak advances the consecutive-day streak in one statement:
// same day keeps the streak, previous day increments it, anything else
// resets to 1. max_streak tracks the high-water mark.
func (r *postgresRepository) TouchReportStreak(ctx context.Context, userID uuid.UUID, submittedAt time.Time) (int, int, error) {
	query := `
		UPDATE users SET
			report_streak = CASE
				WHEN last_report_at IS NOT NULL AND last_report_at::date = $2::date THEN report_streak
				WHEN last_report_at IS NOT NULL AND last_report_at::date = $2::date - 1 THEN report_streak + 1
				ELSE 1
			END,
			max_streak = GREATEST(max_streak, CASE
				WHEN last_report_at IS NOT NULL AND last_report_at::date = $2::date THEN report_streak
				WHEN last_report_at IS NOT NULL AND last_report_at::date = $2::date - 1 THEN report_streak + 1
				ELSE 1
			END),
			last_report_at = $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING report_streak, max_streak
	`

	var streak, maxStreak int
	err := r.pool.QueryRow(ctx, query, userID, submittedAt).Scan(&streak, &maxStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, user.ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("touch report streak: %w", err)
	}

	_ = r.cache.Delete(ctx, fmt.Sprintf("user:%s", userID.String()))

	return streak, maxStreak, nil
}

// ========================================
// SETTINGS
// ========================================

func (r *postgresRepository) GetSettings(ctx context.Context, userID uuid.UUID) (user.Settings, error) {
	var settingsJSON []byte
	err := r.pool.QueryRow(ctx,
		`SELECT settings FROM users WHERE id = $1`, userID,
	).Scan(&settingsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Settings{}, user.ErrUserNotFound
		}
		return user.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s user.Settings
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &s); err != nil {
			return user.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
		}
	}

	return s, nil
}

func (r *postgresRepository) SaveSettings(ctx context.Context, userID uuid.UUID, s user.Settings) error {
	settingsJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET settings = $2, updated_at = NOW() WHERE id = $1`,
		userID, settingsJSON,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	_ = r.cache.Delete(ctx, fmt.Sprintf("user:%s", userID.String()))

	return nil
}
