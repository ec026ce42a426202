package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ========================================
// AUTH DTOs
// ========================================

// RegisterRequest creates a collector or employee account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     Role   `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Role,
			validation.Required,
			validation.In(RoleCollector, RoleEmployee).Error("role must be collector or employee"),
		),
	)
}

// LoginRequest authenticates by email + password
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the JWT pair
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// ========================================
// PROFILE DTOs
// ========================================

// UserDTO is the public user representation (safe to expose)
type UserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	ReportStreak int        `json:"report_streak"`
	MaxStreak    int        `json:"max_streak"`
	LastReportAt *time.Time `json:"last_report_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToDTO converts a User entity to UserDTO
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		ReportStreak: u.ReportStreak,
		MaxStreak:    u.MaxStreak,
		LastReportAt: u.LastReportAt,
		CreatedAt:    u.CreatedAt,
	}
}

// UpdateSettingsRequest is a partial settings patch. Sections left nil
// are untouched; provided sections are shallow-merged per key.
type UpdateSettingsRequest struct {
	Notifications map[string]interface{} `json:"notifications,omitempty"`
	Privacy       map[string]interface{} `json:"privacy,omitempty"`
	Preferences   map[string]interface{} `json:"preferences,omitempty"`
}

func (r UpdateSettingsRequest) Validate() error {
	if r.Notifications == nil && r.Privacy == nil && r.Preferences == nil {
		return validation.NewError("validation_empty_patch", "at least one settings section must be provided")
	}
	return nil
}

// ToPatch converts the request into the model's Settings patch shape
func (r UpdateSettingsRequest) ToPatch() Settings {
	return Settings{
		Notifications: r.Notifications,
		Privacy:       r.Privacy,
		Preferences:   r.Preferences,
	}
}
