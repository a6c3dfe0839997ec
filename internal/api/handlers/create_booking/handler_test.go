package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

type failingGuard struct{}

func (failingGuard) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func (failingGuard) Delete(context.Context, string) error { return nil }

const body = `{"staffId":42,"serviceIds":["101"],"date":"2025-03-03","time":"10:00","clientName":"Иван","clientPhone":"89123456789"}`

func newGuard(t *testing.T) *cache.Memory {
	t.Helper()
	guard, err := cache.NewMemory(16)
	require.NoError(t, err)
	return guard
}

func doRequest(h *Handler, token, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	if token != "" {
		req.Header.Set(HeaderConfirmationToken, token)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.StaffID == 42 && r.Date == "2025-03-03" && r.ClientPhone == "89123456789"
	})).Return(&createBooking.Response{BookingID: 555, BookingHash: "abc", StaffID: 42, Datetime: "2025-03-03T10:00:00"}, nil).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())
	rec := doRequest(h, "tok-1", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(555), resp.BookingID)
	assert.Equal(t, "abc", resp.BookingHash)
}

func TestHandle_DuplicateSubmission(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&createBooking.Response{BookingID: 1}, nil).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())

	first := doRequest(h, "tok-1", body)
	second := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	uc.AssertNumberOfCalls(t, "Execute", 1)
}

func TestHandle_MissingToken(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())

	rec := doRequest(h, "", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_ValidationReleasesToken(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &createBooking.ValidationError{Field: "client_phone", Message: "bad"}).Once()
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&createBooking.Response{BookingID: 7}, nil).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())

	first := doRequest(h, "tok-1", body)
	second := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Contains(t, decodeError(t, first).Message, "client_phone")
	assert.Equal(t, http.StatusCreated, second.Code)
}

func TestHandle_RejectedShowsProviderMessage(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &createBooking.BookingRejectedError{Message: "Время уже занято"}).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())
	rec := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Время уже занято", decodeError(t, rec).Message)
}

func TestHandle_AmbiguousKeepsToken(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, createBooking.ErrBookingAmbiguousOutcome).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())

	first := doRequest(h, "tok-1", body)
	second := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusGatewayTimeout, first.Code)
	assert.Equal(t, msgAmbiguousOutcome, decodeError(t, first).Message)
	assert.Equal(t, http.StatusConflict, second.Code)
	uc.AssertNumberOfCalls(t, "Execute", 1)
}

func TestHandle_RateLimited(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &yclients.StatusError{Status: 429}).Once()

	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())
	rec := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandle_GuardFailureFailsClosed(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, failingGuard{}, time.Minute, logger.NewNop())

	rec := doRequest(h, "tok-1", body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, newGuard(t), time.Minute, logger.NewNop())

	rec := doRequest(h, "tok-1", `{"staffId":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
