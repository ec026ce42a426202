package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ecowaste-backend/internal/domains/dustbin"
	"ecowaste-backend/internal/domains/report"
	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/domains/user"
	"ecowaste-backend/pkg/cache"
	"ecowaste-backend/pkg/geo"
	"ecowaste-backend/pkg/logger"
)

// reportService implements report.Service
type reportService struct {
	repo        report.Repository
	dustbinRepo dustbin.Repository
	userRepo    user.Repository
	cache       cache.Cache
	pointsPerKg int64
}

// NewReportService creates the service instance
func NewReportService(
	repo report.Repository,
	dustbinRepo dustbin.Repository,
	userRepo user.Repository,
	cache cache.Cache,
	pointsPerKg int64,
) report.Service {
	return &reportService{
		repo:        repo,
		dustbinRepo: dustbinRepo,
		userRepo:    userRepo,
		cache:       cache,
		pointsPerKg: pointsPerKg,
	}
}

// ========================================
// SUBMISSION
// ========================================

// Create registers a new pending report. Dustbin enrichment is
// best-effort: a failed lookup is logged and the report still lands.
func (s *reportService) Create(ctx context.Context, collectorID uuid.UUID, req report.CreateReportRequest) (*report.Report, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	rp := &report.Report{
		CollectorID:   collectorID,
		PickupImage:   req.PickupImage,
		DisposalImage: req.DisposalImage,
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DisposalLat:   req.DisposalLat,
		DisposalLng:   req.DisposalLng,
		Description:   req.Description,
		Status:        report.StatusPending,
		Points:        0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 2. ENRICH WITH DUSTBIN DISTANCE + SNAPSHOT (best-effort)
	if req.DustbinID != nil {
		dustbinID, err := uuid.Parse(*req.DustbinID)
		if err == nil {
			rp.DustbinID = &dustbinID
			if d, err := s.dustbinRepo.FindByID(ctx, dustbinID); err != nil {
				logger.Warn().
					Err(err).
					Str("dustbin_id", dustbinID.String()).
					Msg("dustbin lookup failed, creating report without distance")
			} else {
				dist := geo.DistanceMeters(
					geo.Point{Lat: req.DisposalLat, Lng: req.DisposalLng},
					geo.Point{Lat: d.Latitude, Lng: d.Longitude},
				)
				rp.DisposalDistanceM = &dist
				snap := d.ToSnapshot()
				rp.DustbinSnapshot = &snap
			}
		}
	}

	// 3. PERSIST
	id, err := s.repo.Create(ctx, rp)
	if err != nil {
		return nil, err
	}
	rp.ID = id

	// 4. ADVANCE THE COLLECTOR'S STREAK (best-effort)
	if _, _, err := s.userRepo.TouchReportStreak(ctx, collectorID, now); err != nil {
		logger.Warn().
			Err(err).
			Str("collector_id", collectorID.String()).
			Msg("failed to advance report streak")
	}

	return rp, nil
}

// ========================================
// READS
// ========================================

func (s *reportService) GetByID(ctx context.Context, callerID uuid.UUID, callerRole string, id uuid.UUID) (*report.Report, error) {
	rp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Collectors only see their own submissions
	if callerRole != string(user.RoleEmployee) && rp.CollectorID != callerID {
		return nil, report.ErrForbidden
	}

	return rp, nil
}

func (s *reportService) List(ctx context.Context, callerID uuid.UUID, callerRole string, filter report.ListFilter) ([]report.Report, error) {
	if callerRole != string(user.RoleEmployee) {
		filter.CollectorID = &callerID
	}
	return s.repo.List(ctx, filter)
}

// ========================================
// VERIFICATION
// ========================================

// Verify applies the employee's decision on a pending report
func (s *reportService) Verify(ctx context.Context, verifierID uuid.UUID, id uuid.UUID, req report.VerifyReportRequest) (*report.Report, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. APPLY TRANSITION
	var rp *report.Report
	var err error
	switch report.Status(req.Status) {
	case report.StatusApproved:
		// Weight falls out of the points at the configured rate when
		// the collector never weighed the load
		weight := decimal.NewFromInt(req.Points).Div(decimal.NewFromInt(s.pointsPerKg))
		rp, err = s.repo.Approve(ctx, id, verifierID, req.Points, req.Comment, weight)
	case report.StatusRejected:
		rp, err = s.repo.Reject(ctx, id, verifierID, req.Comment)
	default:
		return nil, fmt.Errorf("unreachable status %q", req.Status)
	}
	if err != nil {
		return nil, err
	}

	// 3. DROP THE COLLECTOR'S CACHED SUMMARY (approval changes balance)
	if rp.Status == report.StatusApproved {
		_ = s.cache.Delete(ctx, rewards.SummaryCacheKey(rp.CollectorID))
	}

	return rp, nil
}
