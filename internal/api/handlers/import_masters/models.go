package import_masters

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type MasterChange struct {
	MasterID int64         `json:"masterId"`
	Name     string        `json:"name"`
	Changes  []FieldChange `json:"changes"`
}

// ImportResponse HTTP response model
type ImportResponse struct {
	DryRun        bool           `json:"dryRun"`
	Created       []MasterChange `json:"created"`
	Updated       []MasterChange `json:"updated"`
	Unchanged     int            `json:"unchanged"`
	Skipped       []int64        `json:"skipped"`
	MissingRemote []int64        `json:"missingRemote"`
}

func changes(list []domain.MasterChange) []MasterChange {
	result := make([]MasterChange, 0, len(list))
	for _, c := range list {
		fields := make([]FieldChange, 0, len(c.Changes))
		for _, f := range c.Changes {
			fields = append(fields, FieldChange(f))
		}
		result = append(result, MasterChange{MasterID: c.MasterID, Name: c.Name, Changes: fields})
	}
	return result
}

// FromReport конвертирует итог импорта в HTTP response
func FromReport(r *domain.ImportReport) *ImportResponse {
	return &ImportResponse{
		DryRun:        r.DryRun,
		Created:       changes(r.Created),
		Updated:       changes(r.Updated),
		Unchanged:     r.Unchanged,
		Skipped:       r.Skipped,
		MissingRemote: r.MissingRemote,
	}
}
