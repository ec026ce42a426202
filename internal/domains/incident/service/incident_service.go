package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ecowaste-backend/internal/domains/incident"
	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/pkg/cache"
)

// incidentService implements incident.Service
type incidentService struct {
	repo  incident.Repository
	cache cache.Cache
}

// NewIncidentService creates the service instance
func NewIncidentService(repo incident.Repository, cache cache.Cache) incident.Service {
	return &incidentService{
		repo:  repo,
		cache: cache,
	}
}

// Create registers a new incident in the reported state
func (s *incidentService) Create(ctx context.Context, reporterID uuid.UUID, req incident.CreateIncidentRequest) (*incident.Incident, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUILD ENTITY
	now := time.Now()
	in := &incident.Incident{
		ReporterID:  &reporterID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Urgency:     incident.Urgency(req.Urgency),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      incident.StatusReported,
		Rewarded:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 3. PERSIST
	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	in.ID = id

	return in, nil
}

func (s *incidentService) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *incidentService) List(ctx context.Context, filter incident.ListFilter) ([]incident.Incident, error) {
	return s.repo.List(ctx, filter)
}

func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, req incident.UpdateStatusRequest) (*incident.Incident, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, incident.Status(req.Status))
}

// Award issues the one-time grant and drops the reporter's cached summary
func (s *incidentService) Award(ctx context.Context, incidentID uuid.UUID, req incident.AwardRequest) (*incident.Reward, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. ATOMIC GATE + GRANT
	reward, err := s.repo.Award(ctx, incidentID, req.Points, req.Note)
	if err != nil {
		return nil, err
	}

	// 3. INVALIDATE THE REPORTER'S CACHED SUMMARY
	_ = s.cache.Delete(ctx, rewards.SummaryCacheKey(reward.UserID))

	return reward, nil
}
