package domain

// ResolutionStatus результат сопоставления услуги провайдера с каталогом
type ResolutionStatus string

const (
	ResolutionFound    ResolutionStatus = "found"
	ResolutionNotFound ResolutionStatus = "not_found"
	ResolutionConflict ResolutionStatus = "conflict"
)

// Resolution сопоставление одного внешнего ID.
// Service заполнен только для found, Conflicts только для conflict.
type Resolution struct {
	ExternalID string
	Status     ResolutionStatus
	Service    *Service
	Conflicts  []Service
	VariantIDs []int64
}

// RemoteService услуга из списка провайдера
type RemoteService struct {
	ExternalID string
	Title      string
}
