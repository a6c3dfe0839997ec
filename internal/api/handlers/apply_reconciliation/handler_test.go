package apply_reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ApplySync(ctx context.Context, masterID int64, audit *domain.MasterAudit) (*reconciliation.SyncResult, error) {
	args := m.Called(ctx, masterID, audit)
	result, _ := args.Get(0).(*reconciliation.SyncResult)
	return result, args.Error(1)
}

func serve(svc ReconciliationService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/reconciliation/masters/{masterId}/sync", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func TestHandle_Applied(t *testing.T) {
	svc := &mockService{}
	svc.On("ApplySync", mock.Anything, int64(10), (*domain.MasterAudit)(nil)).Return(&reconciliation.SyncResult{
		MasterID:  10,
		Requested: []int64{3, 4},
		Added:     2,
	}, nil)

	rec := serve(svc, "/reconciliation/masters/10/sync")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SyncResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.MasterID)
	assert.Equal(t, []int64{3, 4}, resp.Requested)
	assert.Equal(t, 2, resp.Added)
}

func TestHandle_MasterNotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("ApplySync", mock.Anything, int64(10), (*domain.MasterAudit)(nil)).
		Return(nil, reconciliation.ErrMasterNotFound)

	rec := serve(svc, "/reconciliation/masters/10/sync")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_RemoteError(t *testing.T) {
	svc := &mockService{}
	svc.On("ApplySync", mock.Anything, int64(10), (*domain.MasterAudit)(nil)).
		Return(nil, &yclients.FailureError{Message: "Сотрудник не найден"})

	rec := serve(svc, "/reconciliation/masters/10/sync")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Сотрудник не найден", resp.Message)
}

func TestHandle_RemoteTimeout(t *testing.T) {
	svc := &mockService{}
	svc.On("ApplySync", mock.Anything, int64(10), (*domain.MasterAudit)(nil)).Return(nil, yclients.ErrRemoteTimeout)

	rec := serve(svc, "/reconciliation/masters/10/sync")

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	svc := &mockService{}
	svc.On("ApplySync", mock.Anything, int64(10), (*domain.MasterAudit)(nil)).Return(nil, errors.New("tx failed"))

	rec := serve(svc, "/reconciliation/masters/10/sync")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandle_InvalidMasterID(t *testing.T) {
	svc := &mockService{}

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/reconciliation/masters/x/sync").Code)
	svc.AssertNotCalled(t, "ApplySync", mock.Anything, mock.Anything, mock.Anything)
}
