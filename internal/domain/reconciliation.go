package domain

import "time"

// RemoteServiceEntry услуга мастера у провайдера и её сопоставление с каталогом
type RemoteServiceEntry struct {
	ExternalID         string
	Title              string
	Status             ResolutionStatus
	ServiceID          *int64
	ConflictServiceIDs []int64
	VariantIDs         []int64
}

// MasterAudit расхождение связей мастер-услуга с данными провайдера.
// Expected, Missing и Extra считаются на уровне услуг, а не вариантов.
type MasterAudit struct {
	MasterID   int64
	MasterName string
	Entries    []RemoteServiceEntry
	Expected   []Service
	Missing    []Service
	Extra      []Service
}

// Count возвращает число записей с указанным статусом
func (a *MasterAudit) Count(status ResolutionStatus) int {
	n := 0
	for _, e := range a.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// MasterFailure мастер, для которого не удалось получить данные провайдера
type MasterFailure struct {
	MasterID int64
	Error    string
}

// ReportTotals сводка по отчету
type ReportTotals struct {
	Masters  int
	Found    int
	NotFound int
	Conflict int
	Missing  int
	Extra    int
}

// Report отчет сверки каталога с провайдером
type Report struct {
	GeneratedAt time.Time
	Masters     []MasterAudit
	Failures    []MasterFailure
	Totals      ReportTotals
}

// FieldChange изменение поля мастера при импорте
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// MasterChange изменение одного мастера при импорте
type MasterChange struct {
	MasterID int64
	Name     string
	Changes  []FieldChange
}

// ImportReport итог импорта мастеров из справочника провайдера
type ImportReport struct {
	DryRun        bool
	Created       []MasterChange
	Updated       []MasterChange
	Unchanged     int
	Skipped       []int64
	MissingRemote []int64
}
