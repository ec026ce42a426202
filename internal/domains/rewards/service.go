package rewards

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business-logic contract for rewards accounting
type Service interface {
	// GetSummary builds (or serves from cache) the balance snapshot
	GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error)

	// Withdraw validates the request, applies the race-safe ledger
	// write and returns the fresh post-withdrawal summary
	Withdraw(ctx context.Context, userID uuid.UUID, req WithdrawRequest) (*Summary, error)

	// ListWithdrawals: collectors see their own ledger, employees see all
	ListWithdrawals(ctx context.Context, callerID uuid.UUID, callerRole string, filter WithdrawalFilter) ([]Withdrawal, error)

	// ExportWithdrawalsXLSX renders the full ledger as a spreadsheet
	// for employee bookkeeping
	ExportWithdrawalsXLSX(ctx context.Context) ([]byte, error)
}
