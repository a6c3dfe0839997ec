package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListStaff(ctx context.Context, serviceID string) ([]yclients.Staff, error) {
	args := m.Called(ctx, serviceID)
	staff, _ := args.Get(0).([]yclients.Staff)
	return staff, args.Error(1)
}

func (m *mockClient) ListStaffServices(ctx context.Context, staffID int64) ([]yclients.Service, error) {
	args := m.Called(ctx, staffID)
	services, _ := args.Get(0).([]yclients.Service)
	return services, args.Error(1)
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) AuditMasterServices(ctx context.Context, master *domain.Master, remote []domain.RemoteService) (*domain.MasterAudit, error) {
	args := m.Called(ctx, master, remote)
	audit, _ := args.Get(0).(*domain.MasterAudit)
	return audit, args.Error(1)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListMasters(ctx context.Context, activeOnly bool) ([]domain.Master, error) {
	args := m.Called(ctx, activeOnly)
	masters, _ := args.Get(0).([]domain.Master)
	return masters, args.Error(1)
}

func (m *mockRepo) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	args := m.Called(ctx, id)
	master, _ := args.Get(0).(*domain.Master)
	return master, args.Error(1)
}

func (m *mockRepo) CreateMaster(ctx context.Context, master *domain.Master) error {
	return m.Called(ctx, master).Error(0)
}

func (m *mockRepo) UpdateMaster(ctx context.Context, master *domain.Master) error {
	return m.Called(ctx, master).Error(0)
}

func (m *mockRepo) AddMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error) {
	args := m.Called(ctx, masterID, serviceIDs)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) RemoveMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error) {
	args := m.Called(ctx, masterID, serviceIDs)
	return args.Int(0), args.Error(1)
}

// inlineTx выполняет функцию без транзакции и считает вызовы
type inlineTx struct {
	calls int
}

func (t *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fixture struct {
	client  *mockClient
	auditor *mockAuditor
	repo    *mockRepo
	tx      *inlineTx
	svc     *Service
}

func newFixture(concurrency int) *fixture {
	f := &fixture{client: &mockClient{}, auditor: &mockAuditor{}, repo: &mockRepo{}, tx: &inlineTx{}}
	f.svc = NewService(f.client, f.auditor, f.repo, f.tx, Config{Concurrency: concurrency}, logger.NewNop())
	f.svc.now = func() time.Time { return time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC) }
	return f
}

func auditWith(masterID int64, entries []domain.RemoteServiceEntry, missing, extra []domain.Service) *domain.MasterAudit {
	return &domain.MasterAudit{MasterID: masterID, Entries: entries, Missing: missing, Extra: extra}
}

func TestFullReport_AllMasters(t *testing.T) {
	f := newFixture(2)
	masters := []domain.Master{{ID: 1, Name: "Анна"}, {ID: 2, Name: "Ольга"}, {ID: 3, Name: "Мария"}}
	f.repo.On("ListMasters", mock.Anything, true).Return(masters, nil)

	f.client.On("ListStaffServices", mock.Anything, int64(1)).Return([]yclients.Service{{ID: 101, Title: "Стрижка"}}, nil)
	f.client.On("ListStaffServices", mock.Anything, int64(2)).Return(nil, yclients.ErrRemoteTimeout)
	f.client.On("ListStaffServices", mock.Anything, int64(3)).Return([]yclients.Service{{ID: 202}, {ID: 303}}, nil)

	f.auditor.On("AuditMasterServices", mock.Anything, mock.MatchedBy(func(m *domain.Master) bool { return m.ID == 1 }),
		[]domain.RemoteService{{ExternalID: "101", Title: "Стрижка"}}).
		Return(auditWith(1,
			[]domain.RemoteServiceEntry{{ExternalID: "101", Status: domain.ResolutionFound}},
			[]domain.Service{{ID: 10}}, nil), nil)
	f.auditor.On("AuditMasterServices", mock.Anything, mock.MatchedBy(func(m *domain.Master) bool { return m.ID == 3 }), mock.Anything).
		Return(auditWith(3,
			[]domain.RemoteServiceEntry{
				{ExternalID: "202", Status: domain.ResolutionConflict},
				{ExternalID: "303", Status: domain.ResolutionNotFound},
			},
			nil, []domain.Service{{ID: 30}}), nil)

	report, err := f.svc.FullReport(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, report.Masters, 2)
	assert.Equal(t, int64(1), report.Masters[0].MasterID)
	assert.Equal(t, int64(3), report.Masters[1].MasterID)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(2), report.Failures[0].MasterID)
	assert.Equal(t, domain.ReportTotals{Masters: 2, Found: 1, NotFound: 1, Conflict: 1, Missing: 1, Extra: 1}, report.Totals)
	assert.Equal(t, 0, f.tx.calls)
	f.repo.AssertNotCalled(t, "AddMasterServices", mock.Anything, mock.Anything, mock.Anything)
}

func TestFullReport_SingleMasterNotFound(t *testing.T) {
	f := newFixture(1)
	f.repo.On("GetMaster", mock.Anything, int64(9)).Return(nil, catalogRepo.ErrMasterNotFound)

	_, err := f.svc.FullReport(context.Background(), ptr.Ptr(int64(9)))

	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestFullReport_RateLimitAborts(t *testing.T) {
	f := newFixture(1)
	f.repo.On("ListMasters", mock.Anything, true).Return([]domain.Master{{ID: 1}}, nil)
	f.client.On("ListStaffServices", mock.Anything, int64(1)).Return(nil, &yclients.StatusError{Status: 429})

	_, err := f.svc.FullReport(context.Background(), nil)

	assert.ErrorIs(t, err, yclients.ErrRateLimited)
}

func TestFullReport_LocalErrorAborts(t *testing.T) {
	f := newFixture(1)
	f.repo.On("ListMasters", mock.Anything, true).Return([]domain.Master{{ID: 1}}, nil)
	f.client.On("ListStaffServices", mock.Anything, int64(1)).Return([]yclients.Service{{ID: 101}}, nil)
	f.auditor.On("AuditMasterServices", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.svc.FullReport(context.Background(), nil)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestApplySync_AddsOnlyMissing(t *testing.T) {
	f := newFixture(1)
	audit := auditWith(1, nil, []domain.Service{{ID: 10}, {ID: 11}}, []domain.Service{{ID: 99}})
	f.repo.On("GetMaster", mock.Anything, int64(1)).Return(&domain.Master{ID: 1}, nil)
	f.repo.On("AddMasterServices", mock.Anything, int64(1), []int64{10, 11}).Return(2, nil).Once()

	result, err := f.svc.ApplySync(context.Background(), 1, audit)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 1, f.tx.calls)
	f.repo.AssertNotCalled(t, "RemoveMasterServices", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplySync_NothingMissing(t *testing.T) {
	f := newFixture(1)

	result, err := f.svc.ApplySync(context.Background(), 1, auditWith(1, nil, nil, []domain.Service{{ID: 99}}))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, f.tx.calls)
}

func TestApplySync_FreshAudit(t *testing.T) {
	f := newFixture(1)
	master := &domain.Master{ID: 1, Name: "Анна"}
	f.repo.On("GetMaster", mock.Anything, int64(1)).Return(master, nil)
	f.client.On("ListStaffServices", mock.Anything, int64(1)).Return([]yclients.Service{{ID: 101}}, nil)
	f.auditor.On("AuditMasterServices", mock.Anything, master, []domain.RemoteService{{ExternalID: "101"}}).
		Return(auditWith(1, nil, []domain.Service{{ID: 10}}, nil), nil)
	f.repo.On("AddMasterServices", mock.Anything, int64(1), []int64{10}).Return(1, nil)

	result, err := f.svc.ApplySync(context.Background(), 1, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
}

func TestApplySync_ForeignAudit(t *testing.T) {
	f := newFixture(1)

	_, err := f.svc.ApplySync(context.Background(), 1, auditWith(2, nil, nil, nil))

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveExtraLinks(t *testing.T) {
	f := newFixture(1)
	f.repo.On("GetMaster", mock.Anything, int64(1)).Return(&domain.Master{ID: 1}, nil)
	f.repo.On("RemoveMasterServices", mock.Anything, int64(1), []int64{99}).Return(1, nil)

	result, err := f.svc.RemoveExtraLinks(context.Background(), 1, []int64{99})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)

	_, err = f.svc.RemoveExtraLinks(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportMasters(t *testing.T) {
	staff := []yclients.Staff{
		{ID: 1, Name: "Анна", Specialization: "Мастер маникюра"},
		{ID: 2, Name: "Ольга Петрова", Specialization: "Косметолог"},
		{ID: 3, Name: "Мария"},
		{ID: 4, Name: "Уволена", Fired: true},
		{ID: 5, Name: ""},
	}
	locals := []domain.Master{
		{ID: 1, Name: "Анна", Specialization: "Мастер маникюра"},
		{ID: 2, Name: "Ольга", Specialization: "Косметолог"},
		{ID: 7, Name: "Ушедший мастер"},
	}

	t.Run("dry run", func(t *testing.T) {
		f := newFixture(1)
		f.client.On("ListStaff", mock.Anything, "").Return(staff, nil)
		f.repo.On("ListMasters", mock.Anything, false).Return(locals, nil)

		report, err := f.svc.ImportMasters(context.Background(), true)

		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 1, report.Unchanged)
		require.Len(t, report.Updated, 1)
		assert.Equal(t, []domain.FieldChange{{Field: "name", Old: "Ольга", New: "Ольга Петрова"}}, report.Updated[0].Changes)
		require.Len(t, report.Created, 2)
		assert.Equal(t, int64(3), report.Created[0].MasterID)
		assert.Equal(t, defaultMasterName, report.Created[1].Name)
		assert.Equal(t, []int64{4}, report.Skipped)
		assert.Equal(t, []int64{7}, report.MissingRemote)
		assert.Equal(t, 0, f.tx.calls)
		f.repo.AssertNotCalled(t, "CreateMaster", mock.Anything, mock.Anything)
	})

	t.Run("apply", func(t *testing.T) {
		f := newFixture(1)
		f.client.On("ListStaff", mock.Anything, "").Return(staff, nil)
		f.repo.On("ListMasters", mock.Anything, false).Return(locals, nil)
		f.repo.On("CreateMaster", mock.Anything, mock.MatchedBy(func(m *domain.Master) bool { return m.ID == 3 || m.ID == 5 })).Return(nil).Twice()
		f.repo.On("UpdateMaster", mock.Anything, mock.MatchedBy(func(m *domain.Master) bool {
			return m.ID == 2 && m.Name == "Ольга Петрова"
		})).Return(nil).Once()

		report, err := f.svc.ImportMasters(context.Background(), false)

		require.NoError(t, err)
		assert.False(t, report.DryRun)
		assert.Equal(t, 1, f.tx.calls)
		f.repo.AssertExpectations(t)
		f.repo.AssertNotCalled(t, "RemoveMasterServices", mock.Anything, mock.Anything, mock.Anything)
	})
}
