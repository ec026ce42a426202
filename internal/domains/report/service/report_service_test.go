package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowaste-backend/internal/domains/dustbin"
	"ecowaste-backend/internal/domains/report"
	"ecowaste-backend/internal/domains/rewards"
	"ecowaste-backend/internal/domains/user"
)

// ========================================
// FAKES
// ========================================

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

type fakeReportRepo struct {
	reports map[uuid.UUID]*report.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uuid.UUID]*report.Report{}}
}

func (f *fakeReportRepo) Create(ctx context.Context, rp *report.Report) (uuid.UUID, error) {
	id := uuid.New()
	cp := *rp
	cp.ID = id
	f.reports[id] = &cp
	return id, nil
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rp, ok := f.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	cp := *rp
	return &cp, nil
}

func (f *fakeReportRepo) List(ctx context.Context, filter report.ListFilter) ([]report.Report, error) {
	out := []report.Report{}
	for _, rp := range f.reports {
		if filter.CollectorID != nil && rp.CollectorID != *filter.CollectorID {
			continue
		}
		if filter.Status != "" && string(rp.Status) != filter.Status {
			continue
		}
		out = append(out, *rp)
	}
	return out, nil
}

func (f *fakeReportRepo) Approve(ctx context.Context, id, verifierID uuid.UUID, points int64, comment string, derivedWeight decimal.Decimal) (*report.Report, error) {
	rp, ok := f.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	if rp.Status != report.StatusPending {
		return nil, report.ErrInvalidReportState
	}
	rp.Status = report.StatusApproved
	rp.Points = points
	rp.VerifiedBy = &verifierID
	rp.VerificationComment = comment
	if rp.WasteWeightKg == nil {
		w := derivedWeight
		rp.WasteWeightKg = &w
	}
	now := time.Now()
	rp.VerifiedAt = &now
	cp := *rp
	return &cp, nil
}

func (f *fakeReportRepo) Reject(ctx context.Context, id, verifierID uuid.UUID, comment string) (*report.Report, error) {
	rp, ok := f.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	if rp.Status != report.StatusPending {
		return nil, report.ErrInvalidReportState
	}
	rp.Status = report.StatusRejected
	rp.VerifiedBy = &verifierID
	rp.VerificationComment = comment
	now := time.Now()
	rp.VerifiedAt = &now
	cp := *rp
	return &cp, nil
}

func (f *fakeReportRepo) ListStalePending(ctx context.Context, before time.Time, limit int) ([]report.Report, error) {
	return nil, nil
}

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
	return nil, nil
}

func (f *fakeDustbinRepo) Update(ctx context.Context, id uuid.UUID, fillLevel *int, status *dustbin.Status) (*dustbin.Dustbin, error) {
	return nil, dustbin.ErrDustbinNotFound
}

// fakeUserRepo only cares about streak touches for these tests
type fakeUserRepo struct {
	streakTouches []uuid.UUID
	streakErr     error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	return uuid.Nil, nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, user.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}
func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (f *fakeUserRepo) TokenVersion(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}
func (f *fakeUserRepo) BumpTokenVersion(ctx context.Context, userID uuid.UUID) error {
	return nil
}
func (f *fakeUserRepo) TouchReportStreak(ctx context.Context, userID uuid.UUID, submittedAt time.Time) (int, int, error) {
	if f.streakErr != nil {
		return 0, 0, f.streakErr
	}
	f.streakTouches = append(f.streakTouches, userID)
	return 1, 1, nil
}
func (f *fakeUserRepo) GetSettings(ctx context.Context, userID uuid.UUID) (user.Settings, error) {
	return user.Settings{}, nil
}
func (f *fakeUserRepo) SaveSettings(ctx context.Context, userID uuid.UUID, s user.Settings) error {
	return nil
}

func newTestService(repo *fakeReportRepo, dustbins *fakeDustbinRepo, users *fakeUserRepo) (report.Service, *fakeCache) {
	c := &fakeCache{}
	return NewReportService(repo, dustbins, users, c, 10), c
}

// ========================================
// SUBMISSION
// ========================================

func TestCreate_PendingWithZeroPoints(t *testing.T) {
	repo := newFakeReportRepo()
	users := &fakeUserRepo{}
	svc, _ := newTestService(repo, newFakeDustbinRepo(), users)
	collectorID := uuid.New()

	rp, err := svc.Create(context.Background(), collectorID, report.CreateReportRequest{
		PickupImage:   "pickup-img",
		DisposalImage: "disposal-img",
		DisposalLat:   10.0,
		DisposalLng:   106.0,
	})
	require.NoError(t, err)

	assert.Equal(t, report.StatusPending, rp.Status)
	assert.Equal(t, int64(0), rp.Points)
	assert.Equal(t, collectorID, rp.CollectorID)
	assert.Nil(t, rp.DisposalDistanceM)

	// Submission advances the collector's streak
	assert.Equal(t, []uuid.UUID{collectorID}, users.streakTouches)
}

func TestCreate_DustbinEnrichment(t *testing.T) {
	repo := newFakeReportRepo()
	dustbins := newFakeDustbinRepo()
	binID, _ := dustbins.Create(context.Background(), &dustbin.Dustbin{
		Name:      "Bin 7",
		Latitude:  10.0,
		Longitude: 106.0,
	})
	svc, _ := newTestService(repo, dustbins, &fakeUserRepo{})

	binIDStr := binID.String()
	rp, err := svc.Create(context.Background(), uuid.New(), report.CreateReportRequest{
		PickupImage:   "pickup-img",
		DisposalImage: "disposal-img",
		DisposalLat:   10.001, // ~111 m north of the bin
		DisposalLng:   106.0,
		DustbinID:     &binIDStr,
	})
	require.NoError(t, err)

	require.NotNil(t, rp.DisposalDistanceM)
	assert.InDelta(t, 111.2, *rp.DisposalDistanceM, 1.0)

	require.NotNil(t, rp.DustbinSnapshot)
	assert.Equal(t, binID, rp.DustbinSnapshot.ID)
	assert.Equal(t, "Bin 7", rp.DustbinSnapshot.Name)
}

func TestCreate_DustbinLookupFailureStillCreates(t *testing.T) {
	repo := newFakeReportRepo()
	svc, _ := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})

	missing := uuid.New().String()
	rp, err := svc.Create(context.Background(), uuid.New(), report.CreateReportRequest{
		PickupImage:   "pickup-img",
		DisposalImage: "disposal-img",
		DustbinID:     &missing,
	})
	require.NoError(t, err)

	assert.Nil(t, rp.DisposalDistanceM)
	assert.Nil(t, rp.DustbinSnapshot)
	require.NotNil(t, rp.DustbinID)
	assert.Len(t, repo.reports, 1)
}

func TestCreate_StreakFailureDoesNotBlockSubmission(t *testing.T) {
	repo := newFakeReportRepo()
	users := &fakeUserRepo{streakErr: user.ErrUserNotFound}
	svc, _ := newTestService(repo, newFakeDustbinRepo(), users)

	_, err := svc.Create(context.Background(), uuid.New(), report.CreateReportRequest{
		PickupImage:   "pickup-img",
		DisposalImage: "disposal-img",
	})
	require.NoError(t, err)
	assert.Len(t, repo.reports, 1)
}

func TestCreate_MissingImagesRejected(t *testing.T) {
	svc, _ := newTestService(newFakeReportRepo(), newFakeDustbinRepo(), &fakeUserRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), report.CreateReportRequest{
		PickupImage: "pickup-only",
	})
	assert.Error(t, err)
}

// ========================================
// VERIFICATION
// ========================================

func submitPending(t *testing.T, repo *fakeReportRepo, collectorID uuid.UUID) uuid.UUID {
	t.Helper()
	id, err := repo.Create(context.Background(), &report.Report{
		CollectorID:   collectorID,
		DisposalImage: "disposal-img",
		Status:        report.StatusPending,
	})
	require.NoError(t, err)
	return id
}

func TestVerify_ApproveSetsPointsAndDerivesWeight(t *testing.T) {
	repo := newFakeReportRepo()
	svc, cache := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	collectorID := uuid.New()
	verifierID := uuid.New()
	id := submitPending(t, repo, collectorID)

	rp, err := svc.Verify(context.Background(), verifierID, id, report.VerifyReportRequest{
		Status: string(report.StatusApproved),
		Points: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, report.StatusApproved, rp.Status)
	assert.Equal(t, int64(120), rp.Points)

	// 120 points at 10 points/kg derives 12 kg
	require.NotNil(t, rp.WasteWeightKg)
	assert.True(t, rp.WasteWeightKg.Equal(decimal.RequireFromString("12")),
		"weight = %s", rp.WasteWeightKg)

	// Approval changes the collector's balance
	assert.Contains(t, cache.deleted, rewards.SummaryCacheKey(collectorID))
}

func TestVerify_ApproveWithoutPointsRejected(t *testing.T) {
	repo := newFakeReportRepo()
	svc, _ := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	id := submitPending(t, repo, uuid.New())

	_, err := svc.Verify(context.Background(), uuid.New(), id, report.VerifyReportRequest{
		Status: string(report.StatusApproved),
	})
	assert.Error(t, err)
	assert.Equal(t, report.StatusPending, repo.reports[id].Status)
}

func TestVerify_RejectHasNoBalanceEffect(t *testing.T) {
	repo := newFakeReportRepo()
	svc, cache := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	id := submitPending(t, repo, uuid.New())

	rp, err := svc.Verify(context.Background(), uuid.New(), id, report.VerifyReportRequest{
		Status:  string(report.StatusRejected),
		Comment: "images do not match",
	})
	require.NoError(t, err)

	assert.Equal(t, report.StatusRejected, rp.Status)
	assert.Equal(t, int64(0), rp.Points)
	assert.Nil(t, rp.WasteWeightKg)
	assert.Empty(t, cache.deleted)
}

func TestVerify_TerminalReportCannotBeVerifiedAgain(t *testing.T) {
	repo := newFakeReportRepo()
	svc, _ := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	id := submitPending(t, repo, uuid.New())

	_, err := svc.Verify(context.Background(), uuid.New(), id, report.VerifyReportRequest{
		Status: string(report.StatusApproved),
		Points: 100,
	})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), uuid.New(), id, report.VerifyReportRequest{
		Status: string(report.StatusRejected),
	})
	assert.ErrorIs(t, err, report.ErrInvalidReportState)
	assert.Equal(t, report.StatusApproved, repo.reports[id].Status)
}

// ========================================
// READ SCOPING
// ========================================

func TestGetByID_CollectorCannotReadOthersReport(t *testing.T) {
	repo := newFakeReportRepo()
	svc, _ := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	owner := uuid.New()
	id := submitPending(t, repo, owner)

	_, err := svc.GetByID(context.Background(), uuid.New(), string(user.RoleCollector), id)
	assert.ErrorIs(t, err, report.ErrForbidden)

	rp, err := svc.GetByID(context.Background(), uuid.New(), string(user.RoleEmployee), id)
	require.NoError(t, err)
	assert.Equal(t, owner, rp.CollectorID)
}

func TestList_CollectorScopedToOwn(t *testing.T) {
	repo := newFakeReportRepo()
	svc, _ := newTestService(repo, newFakeDustbinRepo(), &fakeUserRepo{})
	mine := uuid.New()
	submitPending(t, repo, mine)
	submitPending(t, repo, uuid.New())

	got, err := svc.List(context.Background(), mine, string(user.RoleCollector), report.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine, got[0].CollectorID)

	all, err := svc.List(context.Background(), mine, string(user.RoleEmployee), report.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
