package rewards

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes credits from cash-outs in the feed
type TransactionType string

const (
	TransactionEarned    TransactionType = "earned"
	TransactionWithdrawn TransactionType = "withdrawn"
)

// Transaction is one entry in the recent-activity feed
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	Type         TransactionType `json:"type"`
	AmountPoints int64           `json:"amount_points"`
	AmountRupees decimal.Decimal `json:"amount_rupees"`
	Status       string          `json:"status"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Conversion exposes the active rate so clients render consistent figures
type Conversion struct {
	PointsPerRupee int64 `json:"points_per_rupee"`
}

// Summary is the consistent balance snapshot for one user
type Summary struct {
	LifetimePoints         int64           `json:"lifetime_points"`
	LifetimeReportPoints   int64           `json:"lifetime_report_points"`
	LifetimeIncidentPoints int64           `json:"lifetime_incident_points"`
	WithdrawnPoints        int64           `json:"withdrawn_points"`
	AvailablePoints        int64           `json:"available_points"`
	AvailableRupees        decimal.Decimal `json:"available_rupees"`
	WithdrawnRupees        decimal.Decimal `json:"withdrawn_rupees"`
	PendingReports         int64           `json:"pending_reports"`
	Conversion             Conversion      `json:"conversion"`
	Transactions           []Transaction   `json:"transactions"`
}

// Withdrawal is one append-only ledger entry. Withdrawals complete
// synchronously; there is no external payment confirmation step.
type Withdrawal struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	AmountPoints   int64           `json:"amount_points"`
	AmountRupees   decimal.Decimal `json:"amount_rupees"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDetails string          `json:"payment_details,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

const WithdrawalStatusCompleted = "completed"

// BalanceSnapshot is the raw single-query read the summary is built from
type BalanceSnapshot struct {
	WithdrawnPoints int64
	ReportPoints    int64
	IncidentPoints  int64
	PendingReports  int64
}

// Drift is one user whose denormalized counter disagrees with the ledger
type Drift struct {
	UserID    uuid.UUID
	Counter   int64
	LedgerSum int64
}

// SummaryCacheKey is shared with the report and incident services, which
// invalidate the cached summary whenever they credit points.
func SummaryCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("rewards:summary:%s", userID.String())
}
