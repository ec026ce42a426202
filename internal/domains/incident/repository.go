package incident

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for the incident domain
type Repository interface {
	Create(ctx context.Context, in *Incident) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	List(ctx context.Context, filter ListFilter) ([]Incident, error)

	// UpdateStatus moves the incident to a new state; transitions out
	// of resolved/dismissed fail with ErrTerminalStatus.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Incident, error)

	// Award flips rewarded false->true and appends the grant record in
	// one transaction. The conditional update plus the UNIQUE
	// constraint on incident_id make the grant at-most-once under
	// concurrent requests.
	Award(ctx context.Context, incidentID uuid.UUID, points int64, note string) (*Reward, error)
}
