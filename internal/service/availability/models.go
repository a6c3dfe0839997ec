package availability

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Причины деградированного ответа AvailableTimes
const (
	DegradedNoVariant       = "variant_not_specified"
	DegradedVariantUnlinked = "variant_not_linked"
	DegradedUnknownCapacity = "capacity_unknown"
)

// StaffResult мастера, способные выполнить вариант услуги
type StaffResult struct {
	VariantID         int64
	ExternalServiceID string
	// Linked false, если у варианта нет внешнего ID и запись невозможна
	Linked       bool
	UsedFallback bool
	Diagnostic   bool
	Staff        []domain.Staff
}

// DatesResult даты, доступные для записи
type DatesResult struct {
	StaffID int64
	Dates   []string
}

// TimesResult время, доступное для записи.
// Degraded означает, что фильтр по длительности применить не удалось.
type TimesResult struct {
	StaffID        int64
	Date           string
	VariantID      *int64
	Slots          []domain.TimeSlot
	Degraded       bool
	DegradedReason string
}

// Times возвращает только время начала слотов
func (r *TimesResult) Times() []types.TimeString {
	result := make([]types.TimeString, 0, len(r.Slots))
	for _, s := range r.Slots {
		result = append(result, s.Time)
	}
	return result
}
