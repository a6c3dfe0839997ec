package resolve_mapping

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// ServiceSummary услуга каталога
type ServiceSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	IsActive   bool   `json:"isActive"`
}

// ResolutionResponse HTTP response model
type ResolutionResponse struct {
	ExternalID string           `json:"externalId"`
	Status     string           `json:"status"`
	Service    *ServiceSummary  `json:"service,omitempty"`
	Conflicts  []ServiceSummary `json:"conflicts,omitempty"`
	VariantIDs []int64          `json:"variantIds"`
}

func toSummary(s domain.Service) ServiceSummary {
	return ServiceSummary{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, IsActive: s.IsActive}
}

// FromResolution конвертирует результат сопоставления в HTTP response
func FromResolution(r *domain.Resolution) *ResolutionResponse {
	resp := &ResolutionResponse{
		ExternalID: r.ExternalID,
		Status:     string(r.Status),
		VariantIDs: r.VariantIDs,
	}
	if resp.VariantIDs == nil {
		resp.VariantIDs = []int64{}
	}
	if r.Service != nil {
		summary := toSummary(*r.Service)
		resp.Service = &summary
	}
	for _, c := range r.Conflicts {
		resp.Conflicts = append(resp.Conflicts, toSummary(c))
	}
	return resp
}
