package dustbin

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business-logic contract for the dustbin domain
type Service interface {
	Create(ctx context.Context, req CreateDustbinRequest) (*Dustbin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Dustbin, error)
	List(ctx context.Context, filter ListFilter) ([]Dustbin, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDustbinRequest) (*Dustbin, error)
}
