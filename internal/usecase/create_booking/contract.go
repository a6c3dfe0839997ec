package create_booking

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

// RecordClient интерфейс создания записи в YClients
type RecordClient interface {
	CreateRecord(ctx context.Context, record *yclients.RecordRequest) (*domain.BookingResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
