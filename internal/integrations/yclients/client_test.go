package yclients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:      srv.URL,
		CompanyID:    42,
		PartnerToken: "partner-token",
		UserToken:    "user-token",
		Timeout:      2 * time.Second,
		DirectoryTTL: 10 * time.Minute,
	}, logger.NewNop(), opts...)
}

func TestClient_RequestHeadersAndEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer partner-token, User user-token", r.Header.Get("Authorization"))
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
		assert.Equal(t, "/company/42/staff", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("service_id"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Анна"}],"meta":{"total_count":1}}`))
	})

	env, err := client.Request(context.Background(), http.MethodGet, "/company/42/staff",
		map[string][]string{"service_id": {"500"}}, nil)
	require.NoError(t, err)
	assert.True(t, env.Success())
	assert.True(t, env.HasData())
	assert.JSONEq(t, `{"total_count":1}`, string(env.Field("meta")))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"success":false}`, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrRemoteStatus},
		{name: "not json", status: http.StatusOK, body: `<html>maintenance</html>`, wantErr: ErrRemoteProtocol},
		{name: "empty body", status: http.StatusOK, body: ``, wantErr: ErrRemoteProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Request(context.Background(), http.MethodGet, "/book_staff/42", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_StatusErrorKeepsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"data":null,"meta":{"message":"Выбранное время занято"}}`))
	})

	_, err := client.Request(context.Background(), http.MethodPost, "/book_record/42", nil, map[string]string{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
	assert.False(t, errors.Is(err, ErrRateLimited))

	msg, ok := ProviderMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Выбранное время занято", msg)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	defer close(release)

	_, err := client.Request(context.Background(), http.MethodGet, "/book_dates/42", nil, nil)
	assert.ErrorIs(t, err, ErrRemoteTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, CompanyID: 42, Timeout: time.Second}, logger.NewNop())
	_, err := client.Request(context.Background(), http.MethodGet, "/book_staff/42", nil, nil)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestClient_DirectoryCacheIsOptIn(t *testing.T) {
	var staffCalls, datesCalls int32
	cache := newMapCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/company/42/staff":
			atomic.AddInt32(&staffCalls, 1)
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Анна"}]}`))
		case "/book_dates/42":
			atomic.AddInt32(&datesCalls, 1)
			_, _ = w.Write([]byte(`{"success":true,"data":{"booking_dates":["2024-05-01"]}}`))
		}
	}, WithCache(cache))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		staff, err := client.ListStaff(ctx, "500")
		require.NoError(t, err)
		require.Len(t, staff, 1)

		_, err = client.BookDates(ctx, 1)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&staffCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(&datesCalls))
}

func TestClient_BookTimesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/book_times/42/7/2024-05-01", r.URL.Path)
		assert.Equal(t, []string{"500"}, r.URL.Query()["service_ids"])
		_, _ = w.Write([]byte(`{"success":true,"data":[{"time":"09:00","seance_length":5400}]}`))
	})

	slots, err := client.BookTimes(context.Background(), 7, "2024-05-01", []string{"500"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 5400, slots[0].CapacitySeconds)
}

func TestClient_CreateRecord(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/book_record/42", r.URL.Path)

		var body RecordRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "79991234567", body.Phone)
		if assert.Len(t, body.Appointments, 1) {
			assert.Equal(t, []int64{500, 501}, body.Appointments[0].Services)
		}

		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"record_id":9001,"record_hash":"h"}]}`))
	})

	result, err := client.CreateRecord(context.Background(), &RecordRequest{
		Phone:    "79991234567",
		FullName: "Анна",
		Appointments: []Appointment{{
			ID: 1, Services: []int64{500, 501}, StaffID: 7, Datetime: "2024-05-01T09:00:00",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9001), result.BookingID)
	assert.Equal(t, "h", result.BookingHash)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_CreateRecordNotSucceeded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"data":null,"meta":{"message":"Сотрудник не оказывает услугу"}}`))
	})

	_, err := client.CreateRecord(context.Background(), &RecordRequest{})

	var failure *FailureError
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, ErrNotSucceeded)
	assert.Equal(t, "Сотрудник не оказывает услугу", failure.Message)
}

func TestClient_Authenticate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth", r.URL.Path)
		assert.Equal(t, "Bearer partner-token", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"meta":{"message":"Неверный логин или пароль"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1,"user_token":"fresh-token"}}`))
	})

	token, err := client.Authenticate(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	_, err = client.Authenticate(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/book_times/{id}/{id}/{id}", endpointLabel("/book_times/42/7/2024-05-01"))
	assert.Equal(t, "/company/{id}/staff", endpointLabel("/company/42/staff"))
	assert.Equal(t, "/auth", endpointLabel("/auth"))
}

func TestClient_ListServicesByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/42/services", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("category_id"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"500","title":"Стрижка","category_id":3}]}`))
	})

	categoryID := int64(3)
	services, err := client.ListServices(context.Background(), &categoryID)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "500", services[0].ExternalID())
	assert.Equal(t, "Стрижка", services[0].Title)
}
