package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business-logic contract for the user domain
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)

	// LogoutAll invalidates every outstanding token for the user
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	GetSettings(ctx context.Context, userID uuid.UUID) (Settings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (Settings, error)
}
