package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the data-access contract for the report domain
type Repository interface {
	Create(ctx context.Context, rp *Report) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, filter ListFilter) ([]Report, error)

	// Approve transitions a pending report to approved in one
	// transaction: status/points/verifier are set, waste weight is
	// derived when unset, and the linked dustbin's photo history is
	// advanced under row lock. Non-pending reports fail with
	// ErrInvalidReportState.
	Approve(ctx context.Context, id, verifierID uuid.UUID, points int64, comment string, derivedWeight decimal.Decimal) (*Report, error)

	// Reject transitions a pending report to rejected. No balance or
	// dustbin side effects.
	Reject(ctx context.Context, id, verifierID uuid.UUID, comment string) (*Report, error)

	// ListStalePending returns pending reports submitted before the
	// cutoff, oldest first. Used by the background follow-up job.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]Report, error)
}
