package user

import (
	"time"

	"github.com/google/uuid"
)

// Role phân biệt collector (người thu gom) và employee (cán bộ phường)
type Role string

const (
	RoleCollector Role = "collector"
	RoleEmployee  Role = "employee"
)

// User is the identity and balance anchor of the rewards economy.
// WithdrawnPoints is the only mutable balance field and is only ever
// changed by the withdrawal operation (guarded atomic increment).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role

	// Cumulative points ever withdrawn; monotonically non-decreasing
	WithdrawnPoints int64

	// Bumped to invalidate every outstanding token for this user
	TokenVersion int

	// Consecutive-day submission streak
	ReportStreak int
	MaxStreak    int
	LastReportAt *time.Time

	Settings  Settings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings is the typed view over the persisted preferences blob.
// Each section is an open key-value bag; unknown keys round-trip as-is.
type Settings struct {
	Notifications map[string]interface{} `json:"notifications,omitempty"`
	Privacy       map[string]interface{} `json:"privacy,omitempty"`
	Preferences   map[string]interface{} `json:"preferences,omitempty"`
}

// Merge applies a partial update shallowly per top-level section:
// sections absent from the patch are untouched, keys within a provided
// section overwrite existing keys one level deep (nested objects are
// replaced wholesale).
func (s *Settings) Merge(patch Settings) {
	if patch.Notifications != nil {
		s.Notifications = mergeSection(s.Notifications, patch.Notifications)
	}
	if patch.Privacy != nil {
		s.Privacy = mergeSection(s.Privacy, patch.Privacy)
	}
	if patch.Preferences != nil {
		s.Preferences = mergeSection(s.Preferences, patch.Preferences)
	}
}

func mergeSection(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{}, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
