package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the data-access contract for the user domain
type Repository interface {
	Create(ctx context.Context, u *User) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// TokenVersion reads the current session-invalidation counter;
	// also satisfies middleware.TokenVersionChecker.
	TokenVersion(ctx context.Context, userID uuid.UUID) (int, error)
	BumpTokenVersion(ctx context.Context, userID uuid.UUID) error

	// TouchReportStreak advances the consecutive-day submission streak
	// in a single statement and returns the new values.
	TouchReportStreak(ctx context.Context, userID uuid.UUID, submittedAt time.Time) (streak, maxStreak int, err error)

	GetSettings(ctx context.Context, userID uuid.UUID) (Settings, error)
	SaveSettings(ctx context.Context, userID uuid.UUID, s Settings) error
}
