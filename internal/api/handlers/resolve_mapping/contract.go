package resolve_mapping

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type Resolver interface {
	ResolveLocalService(ctx context.Context, externalID string) (*domain.Resolution, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
