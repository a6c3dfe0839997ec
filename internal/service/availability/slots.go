package availability

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// filterSlots оставляет слоты, вмещающие durationMinutes.
// Слоты без длительности (ответ строками) пропускаются как есть и подсчитываются в unknown.
func filterSlots(slots []domain.TimeSlot, durationMinutes int) (filtered []domain.TimeSlot, unknown int) {
	filtered = make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.HasCapacity {
			unknown++
			filtered = append(filtered, slot)
			continue
		}
		if slot.Fits(durationMinutes) {
			filtered = append(filtered, slot)
		}
	}
	return filtered, unknown
}
