package create_booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type mockRecordClient struct {
	mock.Mock
}

func (m *mockRecordClient) CreateRecord(ctx context.Context, record *yclients.RecordRequest) (*domain.BookingResult, error) {
	args := m.Called(ctx, record)
	result, _ := args.Get(0).(*domain.BookingResult)
	return result, args.Error(1)
}

func validRequest() *Request {
	return &Request{
		StaffID:     42,
		ServiceIDs:  []string{"101", " 202 "},
		Date:        "2025-03-03",
		Time:        "14:30",
		ClientName:  "Иван",
		ClientPhone: "8 (912) 345-67-89",
		ClientEmail: "ivan@example.com",
		Comment:     ptr.Ptr("первый визит"),
	}
}

func newTestUseCase(client RecordClient) *UseCase {
	return NewUseCase(client, Config{NotifyBySMSHours: 24, NotifyByEmailHours: 0}, logger.NewNop())
}

func TestExecute_Success(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.MatchedBy(func(r *yclients.RecordRequest) bool {
		return r.Phone == "79123456789" &&
			r.FullName == "Иван" &&
			r.Email == "ivan@example.com" &&
			r.Comment == "первый визит" &&
			r.NotifyBySMS == 24 &&
			len(r.Appointments) == 1 &&
			r.Appointments[0].StaffID == 42 &&
			r.Appointments[0].Datetime == "2025-03-03T14:30:00" &&
			assert.ObjectsAreEqual([]int64{101, 202}, r.Appointments[0].Services)
	})).Return(&domain.BookingResult{BookingID: 555, BookingHash: "abc"}, nil).Once()

	resp, err := newTestUseCase(client).Execute(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(555), resp.BookingID)
	assert.Equal(t, "abc", resp.BookingHash)
	assert.Equal(t, "79123456789", resp.Phone)
	client.AssertExpectations(t)
}

func TestExecute_ValidationBeforeRemoteCall(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
		field  string
	}{
		{"missing staff", func(r *Request) { r.StaffID = 0 }, "staff_id"},
		{"empty services", func(r *Request) { r.ServiceIDs = nil }, "service_ids"},
		{"non numeric service", func(r *Request) { r.ServiceIDs = []string{"abc"} }, "service_ids"},
		{"bad date", func(r *Request) { r.Date = "03.03.2025" }, "date"},
		{"bad time", func(r *Request) { r.Time = "25:00" }, "time"},
		{"time without leading zero", func(r *Request) { r.Time = "9:00" }, "time"},
		{"time with seconds", func(r *Request) { r.Time = "09:00:00" }, "time"},
		{"missing name", func(r *Request) { r.ClientName = "  " }, "client_name"},
		{"missing phone", func(r *Request) { r.ClientPhone = "" }, "client_phone"},
		{"short phone", func(r *Request) { r.ClientPhone = "12345" }, "client_phone"},
		{"bad email", func(r *Request) { r.ClientEmail = "not-an-email" }, "client_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockRecordClient{}
			req := validRequest()
			tt.modify(req)

			_, err := newTestUseCase(client).Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			client.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_EmailOptional(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.Anything).Return(&domain.BookingResult{BookingID: 1}, nil).Once()

	req := validRequest()
	req.ClientEmail = ""
	req.Comment = nil

	_, err := newTestUseCase(client).Execute(ctx, req)
	require.NoError(t, err)
}

func TestExecute_ProviderRejected(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.Anything).Return(nil, &yclients.FailureError{Message: "Время уже занято"}).Once()

	_, err := newTestUseCase(client).Execute(ctx, validRequest())

	assert.ErrorIs(t, err, ErrBookingRejected)
	var rejected *BookingRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Время уже занято", rejected.Message)
}

func TestExecute_RejectedWithStatus(t *testing.T) {
	ctx := context.Background()
	env, err := yclients.ParseEnvelope([]byte(`{"success":false,"meta":{"message":"Сотрудник не оказывает услугу"}}`))
	require.NoError(t, err)

	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.Anything).Return(nil, &yclients.StatusError{Status: 422, Envelope: env}).Once()

	_, err = newTestUseCase(client).Execute(ctx, validRequest())

	var rejected *BookingRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Сотрудник не оказывает услугу", rejected.Message)
}

func TestExecute_TimeoutIsAmbiguous(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.Anything).Return(nil, yclients.ErrRemoteTimeout).Once()

	_, err := newTestUseCase(client).Execute(ctx, validRequest())

	assert.ErrorIs(t, err, ErrBookingAmbiguousOutcome)
	assert.ErrorIs(t, err, yclients.ErrRemoteTimeout)
	client.AssertNumberOfCalls(t, "CreateRecord", 1)
}

func TestExecute_ProtocolError(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	client.On("CreateRecord", ctx, mock.Anything).Return(nil, yclients.ErrRemoteProtocol).Once()

	_, err := newTestUseCase(client).Execute(ctx, validRequest())

	assert.ErrorIs(t, err, ErrBookingProtocol)
}

func TestExecute_TransportErrorPropagated(t *testing.T) {
	ctx := context.Background()
	client := &mockRecordClient{}
	serverErr := &yclients.StatusError{Status: 502, Body: []byte("bad gateway")}
	client.On("CreateRecord", ctx, mock.Anything).Return(nil, serverErr).Once()

	_, err := newTestUseCase(client).Execute(ctx, validRequest())

	assert.Same(t, serverErr, err)
	assert.NotErrorIs(t, err, ErrBookingRejected)
	client.AssertNumberOfCalls(t, "CreateRecord", 1)
}
