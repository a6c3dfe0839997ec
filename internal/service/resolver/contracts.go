package resolver

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository чтение каталога, необходимое для сопоставления
type CatalogRepository interface {
	ListVariantsByExternalIDs(ctx context.Context, externalIDs []string, activeOnly bool) ([]domain.ServiceVariant, error)
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	GetMasterServiceIDs(ctx context.Context, masterID int64) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
