package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Service сопоставление услуг каталога с услугами провайдера
type Service struct {
	repo   CatalogRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса сопоставления
func NewService(repo CatalogRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ResolveExternalID возвращает внешний ID варианта.
// false означает, что вариант не привязан и не участвует в онлайн-записи.
func ResolveExternalID(variant *domain.ServiceVariant) (string, bool) {
	if variant == nil || !variant.HasExternalRef() {
		return "", false
	}
	return variant.ExternalRef(), true
}

// ResolveLocalService сопоставляет внешний ID с услугой каталога
func (s *Service) ResolveLocalService(ctx context.Context, externalID string) (*domain.Resolution, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return &domain.Resolution{Status: domain.ResolutionNotFound, VariantIDs: []int64{}}, nil
	}

	resolutions, err := s.ResolveMany(ctx, []string{externalID})
	if err != nil {
		return nil, err
	}
	return resolutions[externalID], nil
}

// ResolveMany сопоставляет несколько внешних ID двумя запросами к БД.
// Результат содержит запись для каждого непустого ID.
func (s *Service) ResolveMany(ctx context.Context, externalIDs []string) (map[string]*domain.Resolution, error) {
	ids := uniqueStrings(externalIDs)
	result := make(map[string]*domain.Resolution, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	variants, err := s.repo.ListVariantsByExternalIDs(ctx, ids, true)
	if err != nil {
		s.logger.Error("ResolveMany: failed to list variants: %v", err)
		return nil, fmt.Errorf("%w: ResolveMany - list variants: %v", ErrInternal, err)
	}

	// externalID -> множество услуг и список вариантов
	owners := make(map[string]map[int64]struct{}, len(ids))
	variantIDs := make(map[string][]int64, len(ids))
	serviceIDSet := make(map[int64]struct{})
	for _, v := range variants {
		ref := v.ExternalRef()
		if owners[ref] == nil {
			owners[ref] = make(map[int64]struct{})
		}
		owners[ref][v.ServiceID] = struct{}{}
		variantIDs[ref] = append(variantIDs[ref], v.ID)
		serviceIDSet[v.ServiceID] = struct{}{}
	}

	byID := make(map[int64]domain.Service, len(serviceIDSet))
	if len(serviceIDSet) > 0 {
		services, err := s.repo.GetServicesByIDs(ctx, sortedKeys(serviceIDSet))
		if err != nil {
			s.logger.Error("ResolveMany: failed to load services: %v", err)
			return nil, fmt.Errorf("%w: ResolveMany - load services: %v", ErrInternal, err)
		}
		for _, svc := range services {
			byID[svc.ID] = svc
		}
	}

	for _, id := range ids {
		vids := variantIDs[id]
		sort.Slice(vids, func(i, j int) bool { return vids[i] < vids[j] })
		if vids == nil {
			vids = []int64{}
		}

		resolution := &domain.Resolution{ExternalID: id, VariantIDs: vids}
		serviceIDs := sortedKeys(owners[id])

		switch len(serviceIDs) {
		case 0:
			resolution.Status = domain.ResolutionNotFound
		case 1:
			svc := lookupService(byID, serviceIDs[0])
			resolution.Status = domain.ResolutionFound
			resolution.Service = &svc
		default:
			resolution.Status = domain.ResolutionConflict
			resolution.Conflicts = make([]domain.Service, 0, len(serviceIDs))
			for _, sid := range serviceIDs {
				resolution.Conflicts = append(resolution.Conflicts, lookupService(byID, sid))
			}
			s.logger.Warn("ResolveMany: external id %q is shared by services %v", id, serviceIDs)
		}

		result[id] = resolution
	}

	return result, nil
}

// RequireService возвращает услугу или ошибку сопоставления
// (ErrMappingNotFound, *MappingConflictError)
func (s *Service) RequireService(ctx context.Context, externalID string) (*domain.Service, error) {
	resolution, err := s.ResolveLocalService(ctx, externalID)
	if err != nil {
		return nil, err
	}

	switch resolution.Status {
	case domain.ResolutionFound:
		return resolution.Service, nil
	case domain.ResolutionConflict:
		return nil, &MappingConflictError{ExternalID: resolution.ExternalID, Services: resolution.Conflicts}
	default:
		return nil, fmt.Errorf("%w: external id %q", ErrMappingNotFound, externalID)
	}
}

// AuditMasterServices сравнивает услуги мастера у провайдера со связями в каталоге.
// Ничего не изменяет.
func (s *Service) AuditMasterServices(ctx context.Context, master *domain.Master, remote []domain.RemoteService) (*domain.MasterAudit, error) {
	externalIDs := make([]string, 0, len(remote))
	for _, r := range remote {
		externalIDs = append(externalIDs, r.ExternalID)
	}

	resolutions, err := s.ResolveMany(ctx, externalIDs)
	if err != nil {
		return nil, err
	}

	audit := &domain.MasterAudit{
		MasterID:   master.ID,
		MasterName: master.Name,
		Entries:    make([]domain.RemoteServiceEntry, 0, len(remote)),
		Expected:   []domain.Service{},
		Missing:    []domain.Service{},
		Extra:      []domain.Service{},
	}

	expected := make(map[int64]domain.Service)
	for _, r := range remote {
		id := strings.TrimSpace(r.ExternalID)
		entry := domain.RemoteServiceEntry{ExternalID: id, Title: r.Title, Status: domain.ResolutionNotFound}

		if resolution, ok := resolutions[id]; ok {
			entry.Status = resolution.Status
			entry.VariantIDs = resolution.VariantIDs
			switch resolution.Status {
			case domain.ResolutionFound:
				serviceID := resolution.Service.ID
				entry.ServiceID = &serviceID
				expected[serviceID] = *resolution.Service
			case domain.ResolutionConflict:
				for _, c := range resolution.Conflicts {
					entry.ConflictServiceIDs = append(entry.ConflictServiceIDs, c.ID)
				}
			}
		}
		audit.Entries = append(audit.Entries, entry)
	}

	linkedIDs, err := s.repo.GetMasterServiceIDs(ctx, master.ID)
	if err != nil {
		s.logger.Error("AuditMasterServices: failed to load links for master=%d: %v", master.ID, err)
		return nil, fmt.Errorf("%w: AuditMasterServices - load links: %v", ErrInternal, err)
	}
	linked := make(map[int64]struct{}, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = struct{}{}
	}

	for _, id := range sortedKeys(expected) {
		svc := expected[id]
		audit.Expected = append(audit.Expected, svc)
		if _, ok := linked[id]; !ok {
			audit.Missing = append(audit.Missing, svc)
		}
	}

	extraIDs := make([]int64, 0)
	for _, id := range linkedIDs {
		if _, ok := expected[id]; !ok {
			extraIDs = append(extraIDs, id)
		}
	}
	if len(extraIDs) > 0 {
		extra, err := s.repo.GetServicesByIDs(ctx, extraIDs)
		if err != nil {
			s.logger.Error("AuditMasterServices: failed to load extra services for master=%d: %v", master.ID, err)
			return nil, fmt.Errorf("%w: AuditMasterServices - load extra services: %v", ErrInternal, err)
		}
		audit.Extra = extra
	}

	s.logger.Info("AuditMasterServices: master=%d remote=%d expected=%d missing=%d extra=%d",
		master.ID, len(remote), len(audit.Expected), len(audit.Missing), len(audit.Extra))

	return audit, nil
}

func lookupService(byID map[int64]domain.Service, id int64) domain.Service {
	if svc, ok := byID[id]; ok {
		return svc
	}
	return domain.Service{ID: id}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
