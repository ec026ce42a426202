package dustbin

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for the dustbin domain
type Repository interface {
	Create(ctx context.Context, d *Dustbin) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Dustbin, error)
	List(ctx context.Context, filter ListFilter) ([]Dustbin, error)
	Update(ctx context.Context, id uuid.UUID, fillLevel *int, status *Status) (*Dustbin, error)
}
