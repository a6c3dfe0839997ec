package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// TimeSlot свободное время начала у мастера.
// CapacitySeconds известен только если провайдер его прислал (HasCapacity).
type TimeSlot struct {
	Time            types.TimeString
	CapacitySeconds int
	HasCapacity     bool
}

// Fits проверяет, помещается ли услуга длительностью durationMinutes в слот
func (s TimeSlot) Fits(durationMinutes int) bool {
	if !s.HasCapacity {
		return false
	}
	return s.CapacitySeconds >= durationMinutes*60
}
