package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ecowaste-backend/internal/domains/dustbin"
)

// dustbinService implements dustbin.Service
type dustbinService struct {
	repo dustbin.Repository
}

// NewDustbinService creates the service instance
func NewDustbinService(repo dustbin.Repository) dustbin.Service {
	return &dustbinService{repo: repo}
}

// Create registers a new bin; new bins start active and empty
func (s *dustbinService) Create(ctx context.Context, req dustbin.CreateDustbinRequest) (*dustbin.Dustbin, error) {
	// 1. VALIDATE
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUILD ENTITY
	now := time.Now()
	d := &dustbin.Dustbin{
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		CapacityLiters: req.CapacityLiters,
		FillLevel:      0,
		Status:         dustbin.StatusActive,
		PhotoBase64:    req.PhotoBase64,
		PhotoHistory:   []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 3. PERSIST
	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = id

	return d, nil
}

func (s *dustbinService) GetByID(ctx context.Context, id uuid.UUID) (*dustbin.Dustbin, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *dustbinService) List(ctx context.Context, filter dustbin.ListFilter) ([]dustbin.Dustbin, error) {
	return s.repo.List(ctx, filter)
}

func (s *dustbinService) Update(ctx context.Context, id uuid.UUID, req dustbin.UpdateDustbinRequest) (*dustbin.Dustbin, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var status *dustbin.Status
	if req.Status != nil {
		st := dustbin.Status(*req.Status)
		status = &st
	}

	return s.repo.Update(ctx, id, req.FillLevel, status)
}
