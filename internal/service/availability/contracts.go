package availability

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

// RemoteClient вызовы YClients, нужные для подбора мастеров и времени
type RemoteClient interface {
	ListStaff(ctx context.Context, serviceID string) ([]yclients.Staff, error)
	ListBookableStaff(ctx context.Context) ([]yclients.Staff, error)
	ListStaffServices(ctx context.Context, staffID int64) ([]yclients.Service, error)
	BookDates(ctx context.Context, staffID int64) (*yclients.BookDates, error)
	BookTimes(ctx context.Context, staffID int64, date string, serviceIDs []string) ([]domain.TimeSlot, error)
}

// VariantRepository чтение вариантов услуг
type VariantRepository interface {
	GetVariant(ctx context.Context, id int64) (*domain.ServiceVariant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
