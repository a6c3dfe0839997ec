package import_masters

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ReconciliationService interface {
	ImportMasters(ctx context.Context, dryRun bool) (*domain.ImportReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
