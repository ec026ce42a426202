package rewards

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the data-access contract for rewards accounting
type Repository interface {
	// Snapshot reads the balance inputs for one user in a single
	// statement, so the summary is internally consistent.
	Snapshot(ctx context.Context, userID uuid.UUID) (*BalanceSnapshot, error)

	// Recent credit/debit sources for the activity feed, newest first,
	// at most limit rows each. The service merges and truncates.
	RecentReportCredits(ctx context.Context, userID uuid.UUID, limit int) ([]Transaction, error)
	RecentIncidentCredits(ctx context.Context, userID uuid.UUID, limit int) ([]Transaction, error)
	RecentWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]Transaction, error)

	// Withdraw runs the guarded counter increment and the ledger append
	// in one transaction. The increment only applies while
	// withdrawn_points + amount stays within lifetime points, which
	// closes the check-then-act race between concurrent withdrawals.
	Withdraw(ctx context.Context, userID uuid.UUID, amountPoints int64, amountRupees decimal.Decimal, method, details string) (*Withdrawal, error)

	// ListWithdrawals pages the ledger; nil userID means all users
	ListWithdrawals(ctx context.Context, userID *uuid.UUID, filter WithdrawalFilter) ([]Withdrawal, error)

	// WithdrawnDrift reports users whose denormalized counter disagrees
	// with the ledger sum. Consumed by the reconciliation job.
	WithdrawnDrift(ctx context.Context, limit int) ([]Drift, error)
}
