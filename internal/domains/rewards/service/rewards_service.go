package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/domains/user"
	"ecowaste-backend/pkg/cache"
)

const (
	summaryCacheTTL = 1 * time.Minute
	feedLimit       = 10
	exportPageSize  = 100
)

// rewardsService implements rewards.Service
type rewardsService struct {
	repo           rewards.Repository
	cache          cache.Cache
	pointsPerRupee int64
}

// NewRewardsService creates the service instance
func NewRewardsService(repo rewards.Repository, cache cache.Cache, pointsPerRupee int64) rewards.Service {
	return &rewardsService{
		repo:           repo,
		cache:          cache,
		pointsPerRupee: pointsPerRupee,
	}
}

// ========================================
// SUMMARY
// ========================================

func (s *rewardsService) GetSummary(ctx context.Context, userID uuid.UUID) (*rewards.Summary, error) {
	cacheKey := rewards.SummaryCacheKey(userID)

	var cached rewards.Summary
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	summary, err := s.buildSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, summary, summaryCacheTTL)

	return summary, nil
}

// buildSummary computes the balance snapshot and the merged activity feed
func (s *rewardsService) buildSummary(ctx context.Context, userID uuid.UUID) (*rewards.Summary, error) {
	// 1. SINGLE-STATEMENT BALANCE SNAPSHOT
	snap, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	lifetime := snap.ReportPoints + snap.IncidentPoints
	available := lifetime - snap.WithdrawnPoints
	if available < 0 {
		// Clamped, never negative. A negative raw value means the
		// counter drifted; the reconciliation job surfaces those.
		available = 0
	}

	// 2. MERGED ACTIVITY FEED
	feed, err := s.buildFeed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &rewards.Summary{
		LifetimePoints:         lifetime,
		LifetimeReportPoints:   snap.ReportPoints,
		LifetimeIncidentPoints: snap.IncidentPoints,
		WithdrawnPoints:        snap.WithdrawnPoints,
		AvailablePoints:        available,
		AvailableRupees:        s.toRupees(available),
		WithdrawnRupees:        s.toRupees(snap.WithdrawnPoints),
		PendingReports:         snap.PendingReports,
		Conversion:             rewards.Conversion{PointsPerRupee: s.pointsPerRupee},
		Transactions:           feed,
	}, nil
}

// buildFeed merges the three activity sources into the ten most recent
func (s *rewardsService) buildFeed(ctx context.Context, userID uuid.UUID) ([]rewards.Transaction, error) {
	reportCredits, err := s.repo.RecentReportCredits(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	incidentCredits, err := s.repo.RecentIncidentCredits(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.repo.RecentWithdrawals(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}

	feed := make([]rewards.Transaction, 0, len(reportCredits)+len(incidentCredits)+len(withdrawals))
	feed = append(feed, reportCredits...)
	feed = append(feed, incidentCredits...)
	feed = append(feed, withdrawals...)

	for i := range feed {
		feed[i].AmountRupees = s.toRupees(feed[i].AmountPoints)
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}

	return feed, nil
}

// ========================================
// WITHDRAWAL
// ========================================

func (s *rewardsService) Withdraw(ctx context.Context, userID uuid.UUID, req rewards.WithdrawRequest) (*rewards.Summary, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. DERIVE THE MISSING AMOUNT AT THE FIXED RATE
	var amountPoints int64
	var amountRupees decimal.Decimal
	if req.AmountPoints > 0 {
		amountPoints = req.AmountPoints
		amountRupees = s.toRupees(amountPoints)
	} else {
		// Points round to the nearest integer when derived from rupees
		amountPoints = req.AmountRupees.
			Mul(decimal.NewFromInt(s.pointsPerRupee)).
			Round(0).
			IntPart()
		amountRupees = req.AmountRupees
	}
	if amountPoints <= 0 {
		return nil, rewards.ErrInvalidAmount
	}

	// 3. GUARDED INCREMENT + LEDGER APPEND (one transaction)
	if _, err := s.repo.Withdraw(ctx, userID, amountPoints, amountRupees, req.PaymentMethod, req.PaymentDetails); err != nil {
		return nil, err
	}

	// 4. RETURN THE FRESH SUMMARY
	_ = s.cache.Delete(ctx, rewards.SummaryCacheKey(userID))

	summary, err := s.buildSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, rewards.SummaryCacheKey(userID), summary, summaryCacheTTL)

	return summary, nil
}

// ========================================
// LEDGER
// ========================================

func (s *rewardsService) ListWithdrawals(ctx context.Context, callerID uuid.UUID, callerRole string, filter rewards.WithdrawalFilter) ([]rewards.Withdrawal, error) {
	if callerRole == string(user.RoleEmployee) {
		return s.repo.ListWithdrawals(ctx, nil, filter)
	}
	return s.repo.ListWithdrawals(ctx, &callerID, filter)
}

// ExportWithdrawalsXLSX pages through the full ledger and renders it as
// a spreadsheet
func (s *rewardsService) ExportWithdrawalsXLSX(ctx context.Context) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Withdrawals"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "User ID", "Points", "Rupees", "Payment Method", "Status", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for offset := 0; ; offset += exportPageSize {
		page, err := s.repo.ListWithdrawals(ctx, nil, rewards.WithdrawalFilter{
			Limit:  exportPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}

		for _, w := range page {
			values := []interface{}{
				w.ID.String(),
				w.UserID.String(),
				w.AmountPoints,
				w.AmountRupees.String(),
				w.PaymentMethod,
				w.Status,
				w.CreatedAt.Format(time.RFC3339),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
			}
			row++
		}

		if len(page) < exportPageSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}

	return buf.Bytes(), nil
}

// toRupees converts points to rupees at the configured rate
func (s *rewardsService) toRupees(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Div(decimal.NewFromInt(s.pointsPerRupee))
}
