package get_variant_staff

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// StaffSummary сотрудник в ответе API
type StaffSummary struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Avatar         string  `json:"avatar,omitempty"`
	Rating         float64 `json:"rating"`
	Bookable       bool    `json:"bookable"`
	Hidden         bool    `json:"hidden,omitempty"`
	Fired          bool    `json:"fired,omitempty"`
	Deleted        bool    `json:"deleted,omitempty"`
}

// StaffResponse HTTP response model
type StaffResponse struct {
	VariantID         int64          `json:"variantId"`
	ExternalServiceID string         `json:"externalServiceId,omitempty"`
	Linked            bool           `json:"linked"`
	UsedFallback      bool           `json:"usedFallback"`
	Staff             []StaffSummary `json:"staff"`
	Warning           string         `json:"warning,omitempty"`
}

func toSummary(s domain.Staff) StaffSummary {
	return StaffSummary{
		ID:             s.ID,
		Name:           s.Name,
		Specialization: s.Specialization,
		Avatar:         s.Avatar,
		Rating:         s.Rating,
		Bookable:       s.Bookable,
		Hidden:         s.Hidden,
		Fired:          s.Fired,
		Deleted:        s.Deleted,
	}
}

// FromServiceResult конвертирует результат сервиса в HTTP response
func FromServiceResult(result *availability.StaffResult) *StaffResponse {
	staff := make([]StaffSummary, 0, len(result.Staff))
	for _, s := range result.Staff {
		staff = append(staff, toSummary(s))
	}
	return &StaffResponse{
		VariantID:         result.VariantID,
		ExternalServiceID: result.ExternalServiceID,
		Linked:            result.Linked,
		UsedFallback:      result.UsedFallback,
		Staff:             staff,
	}
}
