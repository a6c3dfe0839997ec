package apply_reconciliation

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
)

type ReconciliationService interface {
	ApplySync(ctx context.Context, masterID int64, audit *domain.MasterAudit) (*reconciliation.SyncResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
