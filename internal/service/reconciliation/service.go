package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

// Service сверка каталога с данными YClients.
// Отчеты ничего не меняют, изменения выполняются только явными вызовами.
type Service struct {
	client    RemoteClient
	auditor   Auditor
	repo      MasterRepository
	txManager TransactionManager
	cfg       Config
	logger    Logger
	now       func() time.Time
}

// NewService создает новый экземпляр сервиса сверки
func NewService(client RemoteClient, auditor Auditor, repo MasterRepository, txManager TransactionManager, cfg Config, logger Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Service{
		client:    client,
		auditor:   auditor,
		repo:      repo,
		txManager: txManager,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// FullReport сверяет одного (masterID != nil) или всех активных мастеров.
// Мастер, для которого провайдер не ответил, попадает в Failures, остальные
// сверяются дальше. Ограничение частоты прерывает весь отчет.
func (s *Service) FullReport(ctx context.Context, masterID *int64) (*domain.Report, error) {
	// 1. Мастера для сверки
	masters, err := s.mastersFor(ctx, masterID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("FullReport: auditing %d masters, concurrency=%d", len(masters), s.cfg.Concurrency)

	// 2. Параллельная сверка с ограничением
	audits := make([]*domain.MasterAudit, len(masters))
	failures := make([]*domain.MasterFailure, len(masters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i := range masters {
		master := &masters[i]
		g.Go(func() error {
			remote, err := s.client.ListStaffServices(gctx, master.ID)
			if err != nil {
				if errors.Is(err, yclients.ErrRateLimited) || errors.Is(err, context.Canceled) {
					return err
				}
				s.logger.Warn("FullReport: master=%d services unavailable: %v", master.ID, err)
				failures[i] = &domain.MasterFailure{MasterID: master.ID, Error: err.Error()}
				return nil
			}

			audit, err := s.auditor.AuditMasterServices(gctx, master, yclients.RemoteServices(remote))
			if err != nil {
				return fmt.Errorf("%w: FullReport - audit master=%d: %v", ErrInternal, master.ID, err)
			}
			audits[i] = audit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("FullReport: aborted: %v", err)
		return nil, err
	}

	// 3. Сборка отчета в порядке мастеров
	report := &domain.Report{
		GeneratedAt: s.now(),
		Masters:     make([]domain.MasterAudit, 0, len(masters)),
		Failures:    []domain.MasterFailure{},
	}
	for i := range masters {
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
			continue
		}
		audit := audits[i]
		report.Masters = append(report.Masters, *audit)
		report.Totals.Found += audit.Count(domain.ResolutionFound)
		report.Totals.NotFound += audit.Count(domain.ResolutionNotFound)
		report.Totals.Conflict += audit.Count(domain.ResolutionConflict)
		report.Totals.Missing += len(audit.Missing)
		report.Totals.Extra += len(audit.Extra)
	}
	report.Totals.Masters = len(report.Masters)

	s.logger.Info("FullReport: masters=%d failures=%d found=%d not_found=%d conflict=%d missing=%d extra=%d",
		report.Totals.Masters, len(report.Failures), report.Totals.Found, report.Totals.NotFound,
		report.Totals.Conflict, report.Totals.Missing, report.Totals.Extra)

	return report, nil
}

// ApplySync добавляет мастеру недостающие связи из audit.Missing.
// Лишние связи не удаляются. При audit == nil сверка выполняется заново.
func (s *Service) ApplySync(ctx context.Context, masterID int64, audit *domain.MasterAudit) (*SyncResult, error) {
	if masterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if audit != nil && audit.MasterID != masterID {
		return nil, fmt.Errorf("%w: audit belongs to master=%d", ErrInvalidInput, audit.MasterID)
	}

	// 1. Свежая сверка, если отчет не передан
	if audit == nil {
		fresh, err := s.auditOne(ctx, masterID)
		if err != nil {
			return nil, err
		}
		audit = fresh
	}

	result := &SyncResult{MasterID: masterID, Requested: make([]int64, 0, len(audit.Missing))}
	for _, svc := range audit.Missing {
		result.Requested = append(result.Requested, svc.ID)
	}
	if len(result.Requested) == 0 {
		s.logger.Info("ApplySync: master=%d has no missing links", masterID)
		return result, nil
	}

	// 2. Добавление в транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getMaster(txCtx, masterID); err != nil {
			return err
		}
		added, err := s.repo.AddMasterServices(txCtx, masterID, result.Requested)
		if err != nil {
			return fmt.Errorf("%w: ApplySync - add links: %v", ErrInternal, err)
		}
		result.Added = added
		return nil
	})
	if err != nil {
		s.logger.Error("ApplySync: master=%d failed: %v", masterID, err)
		return nil, err
	}

	s.logger.Info("ApplySync: master=%d requested=%d added=%d", masterID, len(result.Requested), result.Added)
	return result, nil
}

// RemoveExtraLinks удаляет указанные связи мастера
func (s *Service) RemoveExtraLinks(ctx context.Context, masterID int64, serviceIDs []int64) (*RemoveResult, error) {
	if masterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if len(serviceIDs) == 0 {
		return nil, fmt.Errorf("%w: serviceIDs must not be empty", ErrInvalidInput)
	}

	result := &RemoveResult{MasterID: masterID, Requested: serviceIDs}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getMaster(txCtx, masterID); err != nil {
			return err
		}
		removed, err := s.repo.RemoveMasterServices(txCtx, masterID, serviceIDs)
		if err != nil {
			return fmt.Errorf("%w: RemoveExtraLinks - remove links: %v", ErrInternal, err)
		}
		result.Removed = removed
		return nil
	})
	if err != nil {
		s.logger.Error("RemoveExtraLinks: master=%d failed: %v", masterID, err)
		return nil, err
	}

	s.logger.Warn("RemoveExtraLinks: master=%d removed=%d of %v", masterID, result.Removed, serviceIDs)
	return result, nil
}

// ImportMasters создает и обновляет мастеров по справочнику сотрудников.
// Уволенные и удаленные пропускаются, исчезнувшие у провайдера только
// перечисляются в MissingRemote. dryRun считает изменения без записи.
func (s *Service) ImportMasters(ctx context.Context, dryRun bool) (*domain.ImportReport, error) {
	// 1. Справочник провайдера
	staff, err := s.client.ListStaff(ctx, "")
	if err != nil {
		s.logger.Error("ImportMasters: failed to list staff: %v", err)
		return nil, err
	}

	// 2. Текущие мастера
	locals, err := s.repo.ListMasters(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: ImportMasters - list masters: %v", ErrInternal, err)
	}
	byID := make(map[int64]domain.Master, len(locals))
	for _, m := range locals {
		byID[m.ID] = m
	}

	// 3. Расчет изменений
	report := &domain.ImportReport{
		DryRun:        dryRun,
		Created:       []domain.MasterChange{},
		Updated:       []domain.MasterChange{},
		Skipped:       []int64{},
		MissingRemote: []int64{},
	}
	var toCreate, toUpdate []domain.Master
	remoteIDs := make(map[int64]struct{}, len(staff))

	for _, st := range staff {
		remote := st.ToDomain()
		if remote.ID <= 0 {
			continue
		}
		remoteIDs[remote.ID] = struct{}{}
		if remote.Fired || remote.Deleted {
			report.Skipped = append(report.Skipped, remote.ID)
			continue
		}

		name := remote.Name
		if name == "" {
			name = defaultMasterName
		}

		local, exists := byID[remote.ID]
		if !exists {
			report.Created = append(report.Created, domain.MasterChange{
				MasterID: remote.ID,
				Name:     name,
				Changes:  diffMaster(domain.Master{}, name, remote.Specialization),
			})
			toCreate = append(toCreate, domain.Master{ID: remote.ID, Name: name, Specialization: remote.Specialization, IsActive: true})
			continue
		}

		changes := diffMaster(local, name, remote.Specialization)
		if len(changes) == 0 {
			report.Unchanged++
			continue
		}
		report.Updated = append(report.Updated, domain.MasterChange{MasterID: remote.ID, Name: name, Changes: changes})
		local.Name = name
		local.Specialization = remote.Specialization
		toUpdate = append(toUpdate, local)
	}

	for _, m := range locals {
		if _, ok := remoteIDs[m.ID]; !ok {
			report.MissingRemote = append(report.MissingRemote, m.ID)
		}
	}

	s.logger.Info("ImportMasters: dry_run=%t created=%d updated=%d unchanged=%d skipped=%d missing_remote=%d",
		dryRun, len(report.Created), len(report.Updated), report.Unchanged, len(report.Skipped), len(report.MissingRemote))

	if dryRun || (len(toCreate) == 0 && len(toUpdate) == 0) {
		return report, nil
	}

	// 4. Запись изменений
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for i := range toCreate {
			if err := s.repo.CreateMaster(txCtx, &toCreate[i]); err != nil {
				return fmt.Errorf("%w: ImportMasters - create master=%d: %v", ErrInternal, toCreate[i].ID, err)
			}
		}
		for i := range toUpdate {
			if err := s.repo.UpdateMaster(txCtx, &toUpdate[i]); err != nil {
				return fmt.Errorf("%w: ImportMasters - update master=%d: %v", ErrInternal, toUpdate[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ImportMasters: failed to apply changes: %v", err)
		return nil, err
	}

	return report, nil
}

func (s *Service) mastersFor(ctx context.Context, masterID *int64) ([]domain.Master, error) {
	if masterID != nil {
		master, err := s.getMaster(ctx, *masterID)
		if err != nil {
			return nil, err
		}
		return []domain.Master{*master}, nil
	}

	masters, err := s.repo.ListMasters(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: list masters: %v", ErrInternal, err)
	}
	return masters, nil
}

func (s *Service) auditOne(ctx context.Context, masterID int64) (*domain.MasterAudit, error) {
	master, err := s.getMaster(ctx, masterID)
	if err != nil {
		return nil, err
	}
	remote, err := s.client.ListStaffServices(ctx, masterID)
	if err != nil {
		s.logger.Error("ApplySync: master=%d services unavailable: %v", masterID, err)
		return nil, err
	}
	audit, err := s.auditor.AuditMasterServices(ctx, master, yclients.RemoteServices(remote))
	if err != nil {
		return nil, fmt.Errorf("%w: audit master=%d: %v", ErrInternal, masterID, err)
	}
	return audit, nil
}

func (s *Service) getMaster(ctx context.Context, masterID int64) (*domain.Master, error) {
	master, err := s.repo.GetMaster(ctx, masterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			return nil, ErrMasterNotFound
		}
		return nil, fmt.Errorf("%w: get master=%d: %v", ErrInternal, masterID, err)
	}
	return master, nil
}

func diffMaster(local domain.Master, name, specialization string) []domain.FieldChange {
	changes := make([]domain.FieldChange, 0, 2)
	if local.Name != name {
		changes = append(changes, domain.FieldChange{Field: "name", Old: local.Name, New: name})
	}
	if local.Specialization != specialization {
		changes = append(changes, domain.FieldChange{Field: "specialization", Old: local.Specialization, New: specialization})
	}
	return changes
}
