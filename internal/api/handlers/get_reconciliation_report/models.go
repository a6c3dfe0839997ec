package get_reconciliation_report

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ServiceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EntryResponse struct {
	ExternalID         string  `json:"externalId"`
	Title              string  `json:"title"`
	Status             string  `json:"status"`
	ServiceID          *int64  `json:"serviceId,omitempty"`
	ConflictServiceIDs []int64 `json:"conflictServiceIds,omitempty"`
	VariantIDs         []int64 `json:"variantIds,omitempty"`
}

type MasterResponse struct {
	MasterID   int64           `json:"masterId"`
	MasterName string          `json:"masterName"`
	Entries    []EntryResponse `json:"entries"`
	Expected   []ServiceRef    `json:"expected"`
	Missing    []ServiceRef    `json:"missing"`
	Extra      []ServiceRef    `json:"extra"`
}

type FailureResponse struct {
	MasterID int64  `json:"masterId"`
	Error    string `json:"error"`
}

type TotalsResponse struct {
	Masters  int `json:"masters"`
	Found    int `json:"found"`
	NotFound int `json:"notFound"`
	Conflict int `json:"conflict"`
	Missing  int `json:"missing"`
	Extra    int `json:"extra"`
}

// ReportResponse HTTP response model
type ReportResponse struct {
	GeneratedAt string            `json:"generatedAt"`
	Masters     []MasterResponse  `json:"masters"`
	Failures    []FailureResponse `json:"failures"`
	Totals      TotalsResponse    `json:"totals"`
}

func refs(services []domain.Service) []ServiceRef {
	result := make([]ServiceRef, 0, len(services))
	for _, s := range services {
		result = append(result, ServiceRef{ID: s.ID, Name: s.Name})
	}
	return result
}

// FromReport конвертирует отчет в HTTP response
func FromReport(report *domain.Report) *ReportResponse {
	resp := &ReportResponse{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Masters:     make([]MasterResponse, 0, len(report.Masters)),
		Failures:    make([]FailureResponse, 0, len(report.Failures)),
		Totals:      TotalsResponse(report.Totals),
	}
	for _, m := range report.Masters {
		entries := make([]EntryResponse, 0, len(m.Entries))
		for _, e := range m.Entries {
			entries = append(entries, EntryResponse{
				ExternalID:         e.ExternalID,
				Title:              e.Title,
				Status:             string(e.Status),
				ServiceID:          e.ServiceID,
				ConflictServiceIDs: e.ConflictServiceIDs,
				VariantIDs:         e.VariantIDs,
			})
		}
		resp.Masters = append(resp.Masters, MasterResponse{
			MasterID:   m.MasterID,
			MasterName: m.MasterName,
			Entries:    entries,
			Expected:   refs(m.Expected),
			Missing:    refs(m.Missing),
			Extra:      refs(m.Extra),
		})
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, FailureResponse{MasterID: f.MasterID, Error: f.Error})
	}
	return resp
}
