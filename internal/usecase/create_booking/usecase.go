package create_booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

// UseCase use case для создания записи в YClients
type UseCase struct {
	client RecordClient
	cfg    Config
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(client RecordClient, cfg Config, logger Logger) *UseCase {
	return &UseCase{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Execute проверяет запрос и отправляет одну запись со всеми услугами.
// Запрос к провайдеру выполняется не более одного раза.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация до любых удаленных вызовов
	v, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: staff=%d, services=%v, datetime=%s", req.StaffID, v.serviceIDs, v.datetime)

	// 2. Собираем тело запроса
	record := &yclients.RecordRequest{
		Phone:    v.phone,
		FullName: v.name,
		Email:    v.email,
		Appointments: []yclients.Appointment{{
			ID:       1,
			Services: v.serviceIDs,
			StaffID:  req.StaffID,
			Datetime: v.datetime,
		}},
		NotifyBySMS:   uc.cfg.NotifyBySMSHours,
		NotifyByEmail: uc.cfg.NotifyByEmailHours,
	}
	if req.Comment != nil {
		record.Comment = *req.Comment
	}

	// 3. Единственная попытка создания
	result, err := uc.client.CreateRecord(ctx, record)
	if err != nil {
		return nil, uc.mapError(req, err)
	}

	uc.logger.Info("CreateBooking: created record id=%d for staff=%d", result.BookingID, req.StaffID)

	return &Response{
		BookingID:   result.BookingID,
		BookingHash: result.BookingHash,
		StaffID:     req.StaffID,
		Datetime:    v.datetime,
		Phone:       v.phone,
	}, nil
}

func (uc *UseCase) mapError(req *Request, err error) error {
	switch {
	case errors.Is(err, yclients.ErrNotSucceeded):
		msg, _ := yclients.ProviderMessage(err)
		uc.logger.Warn("CreateBooking: provider rejected booking for staff=%d: %s", req.StaffID, msg)
		return &BookingRejectedError{Message: msg}

	case isRejectedStatus(err):
		msg, _ := yclients.ProviderMessage(err)
		uc.logger.Warn("CreateBooking: provider rejected booking for staff=%d with status: %s", req.StaffID, msg)
		return &BookingRejectedError{Message: msg}

	case errors.Is(err, yclients.ErrRemoteTimeout), errors.Is(err, context.Canceled):
		uc.logger.Error("CreateBooking: outcome unknown for staff=%d at %s %s: %v", req.StaffID, req.Date, req.Time, err)
		return fmt.Errorf("%w: %w", ErrBookingAmbiguousOutcome, err)

	case errors.Is(err, yclients.ErrRemoteProtocol):
		uc.logger.Error("CreateBooking: unexpected response for staff=%d: %v", req.StaffID, err)
		return fmt.Errorf("%w: %w", ErrBookingProtocol, err)

	default:
		uc.logger.Error("CreateBooking: failed to create record for staff=%d: %v", req.StaffID, err)
		return err
	}
}

// isRejectedStatus 4xx (кроме 429) с конвертом success=false: провайдер отказал осознанно
func isRejectedStatus(err error) bool {
	var status *yclients.StatusError
	if !errors.As(err, &status) {
		return false
	}
	if status.Status == http.StatusTooManyRequests || status.Status < 400 || status.Status >= 500 {
		return false
	}
	return status.Envelope != nil && !status.Envelope.Success()
}
