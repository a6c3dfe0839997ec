package remove_master_services

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
)

type ReconciliationService interface {
	RemoveExtraLinks(ctx context.Context, masterID int64, serviceIDs []int64) (*reconciliation.RemoveResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
