package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/domains/user"
)

// ========================================
// FAKES
// ========================================

// fakeCache always misses so services hit the repository; it records
// deletions for invalidation assertions.
type fakeCache struct {
	deleted []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}
func (f *fakeCache) Ping(ctx context.Context) error { return nil }

// fakeRewardsRepo mimics the guarded-increment semantics of the real
// repository against in-memory state.
type fakeRewardsRepo struct {
	userID uuid.UUID
	snap   rewards.BalanceSnapshot

	reportTx   []rewards.Transaction
	incidentTx []rewards.Transaction
	withdrawTx []rewards.Transaction

	ledger []rewards.Withdrawal

	listedUserID  *uuid.UUID
	listedAllUser bool
}

func (f *fakeRewardsRepo) Snapshot(ctx context.Context, userID uuid.UUID) (*rewards.BalanceSnapshot, error) {
	if userID != f.userID {
		return nil, rewards.ErrUserNotFound
	}
	snap := f.snap
	return &snap, nil
}

func (f *fakeRewardsRepo) RecentReportCredits(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	return capFeed(f.reportTx, limit), nil
}

func (f *fakeRewardsRepo) RecentIncidentCredits(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	return capFeed(f.incidentTx, limit), nil
}

func (f *fakeRewardsRepo) RecentWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]rewards.Transaction, error) {
	return capFeed(f.withdrawTx, limit), nil
}

func (f *fakeRewardsRepo) Withdraw(ctx context.Context, userID uuid.UUID, amountPoints int64, amountRupees decimal.Decimal, method, details string) (*rewards.Withdrawal, error) {
	if userID != f.userID {
		return nil, rewards.ErrUserNotFound
	}
	lifetime := f.snap.ReportPoints + f.snap.IncidentPoints
	if f.snap.WithdrawnPoints+amountPoints > lifetime {
		return nil, rewards.ErrInsufficientBalance
	}

	f.snap.WithdrawnPoints += amountPoints
	w := rewards.Withdrawal{
		ID:            uuid.New(),
		UserID:        userID,
		AmountPoints:  amountPoints,
		AmountRupees:  amountRupees,
		PaymentMethod: method,
		Status:        rewards.WithdrawalStatusCompleted,
		CreatedAt:     time.Now(),
	}
	f.ledger = append(f.ledger, w)
	return &w, nil
}

func (f *fakeRewardsRepo) ListWithdrawals(ctx context.Context, userID *uuid.UUID, filter rewards.WithdrawalFilter) ([]rewards.Withdrawal, error) {
	if userID == nil {
		f.listedAllUser = true
		return f.ledger, nil
	}
	f.listedUserID = userID
	out := []rewards.Withdrawal{}
	for _, w := range f.ledger {
		if w.UserID == *userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRewardsRepo) WithdrawnDrift(ctx context.Context, limit int) ([]rewards.Drift, error) {
	return nil, nil
}

func capFeed(feed []rewards.Transaction, limit int) []rewards.Transaction {
	if len(feed) > limit {
		return feed[:limit]
	}
	return feed
}

func newTestService(repo *fakeRewardsRepo) (rewards.Service, *fakeCache) {
	c := &fakeCache{}
	return NewRewardsService(repo, c, 100), c
}

// ========================================
// SUMMARY
// ========================================

func TestGetSummary_Arithmetic(t *testing.T) {
	// Collector with one approved 120-point report at 100 points/rupee
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 120},
	}
	svc, _ := newTestService(repo)

	s, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(120), s.LifetimePoints)
	assert.Equal(t, int64(120), s.AvailablePoints)
	assert.Equal(t, int64(0), s.WithdrawnPoints)
	assert.True(t, s.AvailableRupees.Equal(decimal.RequireFromString("1.2")),
		"availableRupees = %s", s.AvailableRupees)
	assert.Equal(t, int64(100), s.Conversion.PointsPerRupee)
}

func TestGetSummary_CombinesEarningSources(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap: rewards.BalanceSnapshot{
			ReportPoints:    300,
			IncidentPoints:  50,
			WithdrawnPoints: 100,
			PendingReports:  2,
		},
	}
	svc, _ := newTestService(repo)

	s, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(350), s.LifetimePoints)
	assert.Equal(t, int64(300), s.LifetimeReportPoints)
	assert.Equal(t, int64(50), s.LifetimeIncidentPoints)
	assert.Equal(t, int64(250), s.AvailablePoints)
	assert.Equal(t, int64(2), s.PendingReports)
	assert.True(t, s.WithdrawnRupees.Equal(decimal.RequireFromString("1")))
}

func TestGetSummary_AvailableClampedAtZero(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap: rewards.BalanceSnapshot{
			ReportPoints:    120,
			WithdrawnPoints: 200, // drifted counter
		},
	}
	svc, _ := newTestService(repo)

	s, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), s.AvailablePoints)
	assert.True(t, s.AvailableRupees.IsZero())
}

func TestGetSummary_Idempotent(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 500, WithdrawnPoints: 100},
	}
	svc, _ := newTestService(repo)

	first, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetSummary_UnknownUser(t *testing.T) {
	repo := &fakeRewardsRepo{userID: uuid.New()}
	svc, _ := newTestService(repo)

	_, err := svc.GetSummary(context.Background(), uuid.New())
	assert.ErrorIs(t, err, rewards.ErrUserNotFound)
}

func TestGetSummary_FeedMergedAndTruncated(t *testing.T) {
	userID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mkTx := func(offsetHours int, typ rewards.TransactionType) rewards.Transaction {
		return rewards.Transaction{
			ID:           uuid.New(),
			Type:         typ,
			AmountPoints: 10,
			CreatedAt:    base.Add(time.Duration(offsetHours) * time.Hour),
		}
	}

	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 100},
	}
	for i := 0; i < 6; i++ {
		repo.reportTx = append(repo.reportTx, mkTx(i*3, rewards.TransactionEarned))
		repo.incidentTx = append(repo.incidentTx, mkTx(i*3+1, rewards.TransactionEarned))
		repo.withdrawTx = append(repo.withdrawTx, mkTx(i*3+2, rewards.TransactionWithdrawn))
	}
	svc, _ := newTestService(repo)

	s, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, s.Transactions, 10)
	for i := 1; i < len(s.Transactions); i++ {
		assert.False(t, s.Transactions[i].CreatedAt.After(s.Transactions[i-1].CreatedAt),
			"feed must be sorted newest first")
	}
	// Newest entry across all three sources is the last withdrawal
	assert.Equal(t, rewards.TransactionWithdrawn, s.Transactions[0].Type)
	// Rupee figures filled in at the configured rate
	assert.True(t, s.Transactions[0].AmountRupees.Equal(decimal.RequireFromString("0.1")))
}

// ========================================
// WITHDRAWAL
// ========================================

func TestWithdraw_PointsGiven(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 120},
	}
	svc, cache := newTestService(repo)

	s, err := svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		AmountPoints:  100,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), s.WithdrawnPoints)
	assert.Equal(t, int64(20), s.AvailablePoints)

	require.Len(t, repo.ledger, 1)
	assert.Equal(t, int64(100), repo.ledger[0].AmountPoints)
	assert.Equal(t, rewards.WithdrawalStatusCompleted, repo.ledger[0].Status)

	assert.Contains(t, cache.deleted, rewards.SummaryCacheKey(userID))
}

func TestWithdraw_RupeesDerivedToPoints(t *testing.T) {
	// 1.0 rupee at 100 points/rupee derives exactly 100 points
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 120},
	}
	svc, _ := newTestService(repo)

	s, err := svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		AmountRupees:  decimal.RequireFromString("1.0"),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), s.WithdrawnPoints)
	assert.Equal(t, int64(20), s.AvailablePoints)
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, int64(100), repo.ledger[0].AmountPoints)
}

func TestWithdraw_RupeesRoundToNearestPoint(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 1000},
	}
	svc, _ := newTestService(repo)

	_, err := svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		AmountRupees:  decimal.RequireFromString("1.006"),
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	require.Len(t, repo.ledger, 1)
	assert.Equal(t, int64(101), repo.ledger[0].AmountPoints)
}

func TestWithdraw_InsufficientBalanceLeavesStateUnchanged(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 120},
	}
	svc, _ := newTestService(repo)

	_, err := svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		AmountPoints:  200,
		PaymentMethod: "upi",
	})
	assert.ErrorIs(t, err, rewards.ErrInsufficientBalance)

	assert.Empty(t, repo.ledger)
	assert.Equal(t, int64(0), repo.snap.WithdrawnPoints)
}

func TestWithdraw_ExactlyOneAmountRequired(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		snap:   rewards.BalanceSnapshot{ReportPoints: 120},
	}
	svc, _ := newTestService(repo)

	// Neither amount
	_, err := svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		PaymentMethod: "upi",
	})
	assert.ErrorIs(t, err, rewards.ErrInvalidAmount)

	// Both amounts
	_, err = svc.Withdraw(context.Background(), userID, rewards.WithdrawRequest{
		AmountPoints:  50,
		AmountRupees:  decimal.RequireFromString("0.5"),
		PaymentMethod: "upi",
	})
	assert.ErrorIs(t, err, rewards.ErrInvalidAmount)

	assert.Empty(t, repo.ledger)
}

// ========================================
// LEDGER SCOPING
// ========================================

func TestListWithdrawals_CollectorScopedToOwn(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{userID: userID}
	svc, _ := newTestService(repo)

	_, err := svc.ListWithdrawals(context.Background(), userID, string(user.RoleCollector), rewards.WithdrawalFilter{})
	require.NoError(t, err)

	require.NotNil(t, repo.listedUserID)
	assert.Equal(t, userID, *repo.listedUserID)
	assert.False(t, repo.listedAllUser)
}

func TestExportWithdrawalsXLSX_RendersLedger(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRewardsRepo{
		userID: userID,
		ledger: []rewards.Withdrawal{
			{
				ID:            uuid.New(),
				UserID:        userID,
				AmountPoints:  100,
				AmountRupees:  decimal.RequireFromString("1"),
				PaymentMethod: "upi",
				Status:        rewards.WithdrawalStatusCompleted,
				CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	svc, _ := newTestService(repo)

	data, err := svc.ExportWithdrawalsXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Withdrawals", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	points, err := f.GetCellValue("Withdrawals", "C2")
	require.NoError(t, err)
	assert.Equal(t, "100", points)

	method, err := f.GetCellValue("Withdrawals", "E2")
	require.NoError(t, err)
	assert.Equal(t, "upi", method)
}

func TestListWithdrawals_EmployeeSeesAll(t *testing.T) {
	repo := &fakeRewardsRepo{userID: uuid.New()}
	svc, _ := newTestService(repo)

	_, err := svc.ListWithdrawals(context.Background(), uuid.New(), string(user.RoleEmployee), rewards.WithdrawalFilter{})
	require.NoError(t, err)

	assert.True(t, repo.listedAllUser)
	assert.Nil(t, repo.listedUserID)
}
