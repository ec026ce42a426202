package incident

import (
	"time"

	"github.com/google/uuid"
)

// Status is the incident lifecycle state. Employees may move freely
// between the non-terminal states; resolved and dismissed are final.
type Status string

const (
	StatusReported     Status = "reported"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// ValidStatuses for request validation
var ValidStatuses = []interface{}{
	string(StatusReported), string(StatusAcknowledged), string(StatusInProgress),
	string(StatusResolved), string(StatusDismissed),
}

// IsTerminal reports whether no further status transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// Urgency levels for triage
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var ValidUrgencies = []interface{}{
	string(UrgencyLow), string(UrgencyMedium), string(UrgencyHigh), string(UrgencyCritical),
}

// Incident entity - citizen/collector-reported event (pothole, hazard, ...)
type Incident struct {
	ID          uuid.UUID  `json:"id"`
	ReporterID  *uuid.UUID `json:"reporter_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Urgency     Urgency    `json:"urgency"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Status      Status     `json:"status"`

	// Rewarded flips false->true exactly once, and only while resolved
	Rewarded bool `json:"rewarded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reward is the append-only grant record tied to one resolved incident.
// At most one row exists per incident (UNIQUE constraint on incident_id).
type Reward struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	UserID     uuid.UUID `json:"user_id"`
	Points     int64     `json:"points"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
