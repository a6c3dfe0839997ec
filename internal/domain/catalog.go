package domain

import (
	"strings"
	"time"
)

// UnitType единица, в которой продается вариант услуги
type UnitType string

const (
	UnitTypeSession UnitType = "session"
	UnitTypeZone    UnitType = "zone"
	UnitTypeVisit   UnitType = "visit"
)

// Service услуга каталога салона
type Service struct {
	ID         int64
	Name       string
	CategoryID *int64
	IsActive   bool
}

// ServiceVariant конкретный вариант услуги (длительность x количество x единица x цена).
// ExternalServiceID ссылается на услугу YClients и не проверяется внешним ключом.
type ServiceVariant struct {
	ID                int64
	ServiceID         int64
	DurationMinutes   int
	UnitType          UnitType
	Units             int
	Price             float64
	IsActive          bool
	ExternalServiceID string
}

// ExternalRef возвращает идентификатор услуги у провайдера без пробелов
func (v *ServiceVariant) ExternalRef() string {
	return strings.TrimSpace(v.ExternalServiceID)
}

// HasExternalRef сообщает, может ли вариант участвовать в онлайн-записи
func (v *ServiceVariant) HasExternalRef() bool {
	return v.ExternalRef() != ""
}

// RequiredSeconds длительность варианта в секундах
func (v *ServiceVariant) RequiredSeconds() int {
	return v.DurationMinutes * 60
}

// Master мастер салона. ID совпадает с ID сотрудника в YClients
type Master struct {
	ID             int64
	Name           string
	Specialization string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
