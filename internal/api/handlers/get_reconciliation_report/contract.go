package get_reconciliation_report

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ReconciliationService interface {
	FullReport(ctx context.Context, masterID *int64) (*domain.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
