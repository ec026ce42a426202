package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowaste-backend/internal/domains/dustbin"
)

type fakeDustbinRepo struct {
	bins map[uuid.UUID]*dustbin.Dustbin
}

func newFakeDustbinRepo() *fakeDustbinRepo {
	return &fakeDustbinRepo{bins: map[uuid.UUID]*dustbin.Dustbin{}}
}

func (f *fakeDustbinRepo) Create(ctx context.Context, d *dustbin.Dustbin) (uuid.UUID, error) {
	id := uuid.New()
	cp := *d
	cp.ID = id
	f.bins[id] = &cp
	return id, nil
}

func (f *fakeDustbinRepo) FindByID(ctx context.Context, id uuid.UUID) (*dustbin.Dustbin, error) {
	d, ok := f.bins[id]
	if !ok {
		return nil, dustbin.ErrDustbinNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDustbinRepo) List(ctx context.Context, filter dustbin.ListFilter) ([]dustbin.Dustbin, error) {
	out := []dustbin.Dustbin{}
	for _, d := range f.bins {
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDustbinRepo) Update(ctx context.Context, id uuid.UUID, fillLevel *int, status *dustbin.Status) (*dustbin.Dustbin, error) {
	d, ok := f.bins[id]
	if !ok {
		return nil, dustbin.ErrDustbinNotFound
	}
	if fillLevel != nil {
		d.FillLevel = *fillLevel
	}
	if status != nil {
		d.Status = *status
	}
	cp := *d
	return &cp, nil
}

func TestCreate_NewBinStartsActiveAndEmpty(t *testing.T) {
	repo := newFakeDustbinRepo()
	svc := NewDustbinService(repo)

	d, err := svc.Create(context.Background(), dustbin.CreateDustbinRequest{
		Name:           "Market Square Bin",
		Latitude:       10.78,
		Longitude:      106.70,
		CapacityLiters: 240,
	})
	require.NoError(t, err)

	assert.Equal(t, dustbin.StatusActive, d.Status)
	assert.Equal(t, 0, d.FillLevel)
	assert.Empty(t, d.PhotoHistory)
}

func TestCreate_RequiresNameAndCapacity(t *testing.T) {
	svc := NewDustbinService(newFakeDustbinRepo())

	_, err := svc.Create(context.Background(), dustbin.CreateDustbinRequest{
		Latitude:  10.0,
		Longitude: 106.0,
	})
	assert.Error(t, err)
}

func TestUpdate_EmptyPatchRejected(t *testing.T) {
	svc := NewDustbinService(newFakeDustbinRepo())

	_, err := svc.Update(context.Background(), uuid.New(), dustbin.UpdateDustbinRequest{})
	assert.Error(t, err)
}

func TestUpdate_FillLevelAndStatus(t *testing.T) {
	repo := newFakeDustbinRepo()
	svc := NewDustbinService(repo)
	id, _ := repo.Create(context.Background(), &dustbin.Dustbin{Status: dustbin.StatusActive})

	fill := 95
	status := string(dustbin.StatusFull)
	d, err := svc.Update(context.Background(), id, dustbin.UpdateDustbinRequest{
		FillLevel: &fill,
		Status:    &status,
	})
	require.NoError(t, err)

	assert.Equal(t, 95, d.FillLevel)
	assert.Equal(t, dustbin.StatusFull, d.Status)
}

func TestUpdate_FillLevelOutOfRange(t *testing.T) {
	svc := NewDustbinService(newFakeDustbinRepo())

	fill := 130
	_, err := svc.Update(context.Background(), uuid.New(), dustbin.UpdateDustbinRequest{
		FillLevel: &fill,
	})
	assert.Error(t, err)
}
