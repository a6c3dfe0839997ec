package availability

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

// Config параметры сервиса доступности
type Config struct {
	// FallbackConcurrency сколько мастеров проверяется одновременно
	// при запасном способе подбора (1 - последовательно)
	FallbackConcurrency int
}

// Service подбор мастеров, дат и времени для варианта услуги
type Service struct {
	client   RemoteClient
	variants VariantRepository
	cfg      Config
	logger   Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(client RemoteClient, variants VariantRepository, cfg Config, logger Logger) *Service {
	if cfg.FallbackConcurrency <= 0 {
		cfg.FallbackConcurrency = 1
	}
	return &Service{
		client:   client,
		variants: variants,
		cfg:      cfg,
		logger:   logger,
	}
}

// StaffForVariant мастера, оказывающие вариант услуги.
// Сначала запрашивается /company/{id}/staff?service_id=; если ответ пуст или
// success=false, список проверяется по услугам каждого записываемого мастера.
// diagnostic=true отключает фильтр скрытых, уволенных и удаленных.
func (s *Service) StaffForVariant(ctx context.Context, variantID int64, diagnostic bool) (*StaffResult, error) {
	variant, err := s.getVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	result := &StaffResult{VariantID: variantID, Diagnostic: diagnostic, Staff: []domain.Staff{}}

	externalID := variant.ExternalRef()
	if externalID == "" {
		s.logger.Warn("StaffForVariant: variant=%d has no external service id", variantID)
		return result, nil
	}
	result.ExternalServiceID = externalID
	result.Linked = true

	// 1. Основной способ: фильтр по услуге на стороне провайдера
	staff, err := s.client.ListStaff(ctx, externalID)
	switch {
	case err == nil && len(staff) > 0:
		result.Staff = filterStaff(staff, diagnostic)
		s.logger.Info("StaffForVariant: variant=%d service=%s staff=%d", variantID, externalID, len(result.Staff))
		return result, nil
	case err != nil && !noUsableSignal(err):
		s.logger.Error("StaffForVariant: failed to list staff for service=%s: %v", externalID, err)
		return nil, err
	}

	// 2. Запасной способ: N+1 запросов
	s.logger.Warn("StaffForVariant: no usable staff list for service=%s (err=%v), using fallback", externalID, err)
	staff, err = s.fallbackStaff(ctx, externalID)
	if err != nil {
		return nil, err
	}

	result.UsedFallback = true
	result.Staff = filterStaff(staff, diagnostic)
	s.logger.Info("StaffForVariant: variant=%d service=%s fallback staff=%d", variantID, externalID, len(result.Staff))
	return result, nil
}

// fallbackStaff оставляет тех записываемых мастеров, у которых в списке услуг есть externalID
func (s *Service) fallbackStaff(ctx context.Context, externalID string) ([]yclients.Staff, error) {
	candidates, err := s.client.ListBookableStaff(ctx)
	if err != nil {
		s.logger.Error("StaffForVariant: failed to list bookable staff: %v", err)
		return nil, err
	}

	matched := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FallbackConcurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			services, err := s.client.ListStaffServices(gctx, int64(candidate.ID))
			if err != nil {
				if errors.Is(err, yclients.ErrRateLimited) || errors.Is(err, context.Canceled) {
					return err
				}
				s.logger.Warn("StaffForVariant: skip staff=%d, services unavailable: %v", int64(candidate.ID), err)
				return nil
			}
			for _, svc := range services {
				if svc.ExternalID() == externalID {
					matched[i] = true
					break
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("StaffForVariant: fallback aborted: %v", err)
		return nil, err
	}

	result := make([]yclients.Staff, 0, len(candidates))
	for i, candidate := range candidates {
		if matched[i] {
			result = append(result, candidate)
		}
	}
	return result, nil
}

// AvailableDates даты, доступные для записи к мастеру.
// Отсутствие данных у провайдера дает пустой список.
func (s *Service) AvailableDates(ctx context.Context, staffID int64) (*DatesResult, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	result := &DatesResult{StaffID: staffID, Dates: []string{}}

	dates, err := s.client.BookDates(ctx, staffID)
	if err != nil {
		if errors.Is(err, yclients.ErrNotSucceeded) {
			s.logger.Warn("AvailableDates: provider returned no dates for staff=%d: %v", staffID, err)
			return result, nil
		}
		s.logger.Error("AvailableDates: failed to get dates for staff=%d: %v", staffID, err)
		return nil, err
	}

	result.Dates = dates.BookingDates
	s.logger.Info("AvailableDates: staff=%d dates=%d", staffID, len(result.Dates))
	return result, nil
}

// AvailableTimes свободное время мастера на дату.
// С привязанным вариантом возвращаются только слоты, вмещающие его длительность.
func (s *Service) AvailableTimes(ctx context.Context, staffID int64, date string, variantID *int64) (*TimesResult, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(domain.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	result := &TimesResult{StaffID: staffID, Date: date, VariantID: variantID, Slots: []domain.TimeSlot{}}

	var variant *domain.ServiceVariant
	if variantID != nil {
		v, err := s.getVariant(ctx, *variantID)
		if err != nil {
			return nil, err
		}
		variant = v
	}

	var serviceIDs []string
	if variant != nil && variant.HasExternalRef() {
		serviceIDs = []string{variant.ExternalRef()}
	}

	slots, err := s.client.BookTimes(ctx, staffID, date, serviceIDs)
	if err != nil {
		if errors.Is(err, yclients.ErrNotSucceeded) {
			s.logger.Warn("AvailableTimes: provider returned no times for staff=%d date=%s: %v", staffID, date, err)
			return result, nil
		}
		s.logger.Error("AvailableTimes: failed to get times for staff=%d date=%s: %v", staffID, date, err)
		return nil, err
	}

	switch {
	case variant == nil:
		result.Slots = slots
		result.Degraded = true
		result.DegradedReason = DegradedNoVariant
	case len(serviceIDs) == 0:
		s.logger.Warn("AvailableTimes: variant=%d is not linked, returning unfiltered slots", variant.ID)
		result.Slots = slots
		result.Degraded = true
		result.DegradedReason = DegradedVariantUnlinked
	default:
		filtered, unknown := filterSlots(slots, variant.DurationMinutes)
		result.Slots = filtered
		if unknown > 0 {
			result.Degraded = true
			result.DegradedReason = DegradedUnknownCapacity
		}
	}

	s.logger.Info("AvailableTimes: staff=%d date=%s raw=%d returned=%d degraded=%t",
		staffID, date, len(slots), len(result.Slots), result.Degraded)
	return result, nil
}

func (s *Service) getVariant(ctx context.Context, variantID int64) (*domain.ServiceVariant, error) {
	if variantID <= 0 {
		return nil, fmt.Errorf("%w: variantID must be positive", ErrInvalidInput)
	}
	variant, err := s.variants.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrVariantNotFound) {
			return nil, ErrVariantNotFound
		}
		s.logger.Error("availability: failed to load variant=%d: %v", variantID, err)
		return nil, fmt.Errorf("%w: load variant: %v", ErrInternal, err)
	}
	return variant, nil
}

// noUsableSignal ответы основного способа, после которых включается запасной
func noUsableSignal(err error) bool {
	return errors.Is(err, yclients.ErrNotSucceeded) || errors.Is(err, yclients.ErrRemoteProtocol)
}

func filterStaff(staff []yclients.Staff, diagnostic bool) []domain.Staff {
	result := make([]domain.Staff, 0, len(staff))
	for _, st := range staff {
		d := st.ToDomain()
		if !diagnostic && !d.IsVisible() {
			continue
		}
		result = append(result, d)
	}
	return result
}
