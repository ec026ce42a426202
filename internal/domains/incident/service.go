package incident

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business-logic contract for the incident domain
type Service interface {
	Create(ctx context.Context, reporterID uuid.UUID, req CreateIncidentRequest) (*Incident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	List(ctx context.Context, filter ListFilter) ([]Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Incident, error)

	// Award issues the one-time point grant for a resolved incident
	Award(ctx context.Context, incidentID uuid.UUID, req AwardRequest) (*Reward, error)
}
