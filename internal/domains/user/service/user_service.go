package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ecowaste-backend/internal/domains/user"
	"ecowaste-backend/pkg/jwt"
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewUserService creates the service instance
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates a new collector or employee account
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: email must be unique
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// 3. HASH PASSWORD
	// bcrypt cost 12: balance between security and latency
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	now := time.Now()
	newUser := &user.User{
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	id, err := s.repo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}
	newUser.ID = id

	dto := newUser.ToDTO()
	return &dto, nil
}

// Login authenticates the user and returns a JWT pair
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. FIND USER BY EMAIL
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Never expose whether the email exists
		return nil, user.ErrInvalidCredentials
	}

	// 3. VERIFY PASSWORD (constant-time comparison)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	// 4. GENERATE TOKENS carrying the current token version
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, string(u.Role), u.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String(), u.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	dto := u.ToDTO()
	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		User:         dto,
	}, nil
}

// LogoutAll bumps token_version so every outstanding token is rejected
func (s *userService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.repo.BumpTokenVersion(ctx, userID)
}

// ========================================
// PROFILE & SETTINGS
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) GetSettings(ctx context.Context, userID uuid.UUID) (user.Settings, error) {
	return s.repo.GetSettings(ctx, userID)
}

// UpdateSettings shallow-merges the patch per top-level section and persists
func (s *userService) UpdateSettings(ctx context.Context, userID uuid.UUID, req user.UpdateSettingsRequest) (user.Settings, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return user.Settings{}, err
	}

	// 2. READ CURRENT SETTINGS
	current, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return user.Settings{}, err
	}

	// 3. MERGE (per-section shallow merge)
	current.Merge(req.ToPatch())

	// 4. PERSIST
	if err := s.repo.SaveSettings(ctx, userID, current); err != nil {
		return user.Settings{}, err
	}

	return current, nil
}
