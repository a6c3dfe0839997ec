package get_staff_times

import "github.com/m04kA/SMC-SalonBooking/internal/service/availability"

// TimesResponse HTTP response model
type TimesResponse struct {
	StaffID        int64    `json:"staffId"`
	Date           string   `json:"date"`
	VariantID      *int64   `json:"variantId,omitempty"`
	Times          []string `json:"times"`
	Degraded       bool     `json:"degraded"`
	DegradedReason string   `json:"degradedReason,omitempty"`
	Warning        string   `json:"warning,omitempty"`
}

// FromServiceResult конвертирует результат сервиса в HTTP response
func FromServiceResult(result *availability.TimesResult) *TimesResponse {
	times := make([]string, 0, len(result.Slots))
	for _, t := range result.Times() {
		times = append(times, t.String())
	}
	return &TimesResponse{
		StaffID:        result.StaffID,
		Date:           result.Date,
		VariantID:      result.VariantID,
		Times:          times,
		Degraded:       result.Degraded,
		DegradedReason: result.DegradedReason,
	}
}
