package reconciliation

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

// RemoteClient справочники YClients, нужные для сверки
type RemoteClient interface {
	ListStaff(ctx context.Context, serviceID string) ([]yclients.Staff, error)
	ListStaffServices(ctx context.Context, staffID int64) ([]yclients.Service, error)
}

// Auditor сопоставление услуг мастера с каталогом
type Auditor interface {
	AuditMasterServices(ctx context.Context, master *domain.Master, remote []domain.RemoteService) (*domain.MasterAudit, error)
}

// MasterRepository мастера и их связи с услугами
type MasterRepository interface {
	ListMasters(ctx context.Context, activeOnly bool) ([]domain.Master, error)
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	CreateMaster(ctx context.Context, master *domain.Master) error
	UpdateMaster(ctx context.Context, master *domain.Master) error
	AddMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error)
	RemoveMasterServices(ctx context.Context, masterID int64, serviceIDs []int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
