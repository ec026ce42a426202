package report

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business-logic contract for the report domain
type Service interface {
	Create(ctx context.Context, collectorID uuid.UUID, req CreateReportRequest) (*Report, error)
	GetByID(ctx context.Context, callerID uuid.UUID, callerRole string, id uuid.UUID) (*Report, error)
	List(ctx context.Context, callerID uuid.UUID, callerRole string, filter ListFilter) ([]Report, error)

	// Verify applies the employee's approve/reject decision
	Verify(ctx context.Context, verifierID uuid.UUID, id uuid.UUID, req VerifyReportRequest) (*Report, error)
}
