package yclients

import (
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Staff сотрудник из /company/{id}/staff и /book_staff/{id}
type Staff struct {
	ID             flexInt64   `json:"id"`
	Name           string      `json:"name"`
	Specialization string      `json:"specialization"`
	Avatar         string      `json:"avatar"`
	Rating         flexFloat64 `json:"rating"`
	Bookable       *flexBool   `json:"bookable"`
	Hidden         flexBool    `json:"hidden"`
	Fired          flexBool    `json:"fired"`
	IsDeleted      flexBool    `json:"is_deleted"`
	Deleted        flexBool    `json:"deleted"`
}

// ToDomain конвертирует сотрудника в доменную модель.
// bookable по умолчанию true: /company/{id}/staff его не присылает.
func (s Staff) ToDomain() domain.Staff {
	bookable := true
	if s.Bookable != nil {
		bookable = bool(*s.Bookable)
	}
	return domain.Staff{
		ID:             int64(s.ID),
		Name:           s.Name,
		Specialization: s.Specialization,
		Avatar:         s.Avatar,
		Rating:         float64(s.Rating),
		Bookable:       bookable,
		Hidden:         bool(s.Hidden),
		Fired:          bool(s.Fired),
		Deleted:        bool(s.IsDeleted) || bool(s.Deleted),
	}
}

// Service услуга провайдера
type Service struct {
	ID         flexInt64 `json:"id"`
	Title      string    `json:"title"`
	CategoryID flexInt64 `json:"category_id"`
	Active     *flexBool `json:"active"`
}

// ExternalID идентификатор услуги строкой, так он хранится в каталоге
func (s Service) ExternalID() string {
	return strconv.FormatInt(int64(s.ID), 10)
}

// ToRemote конвертирует в доменную услугу провайдера
func (s Service) ToRemote() domain.RemoteService {
	return domain.RemoteService{ExternalID: s.ExternalID(), Title: s.Title}
}

// RemoteServices конвертирует список услуг
func RemoteServices(services []Service) []domain.RemoteService {
	result := make([]domain.RemoteService, 0, len(services))
	for _, s := range services {
		result = append(result, s.ToRemote())
	}
	return result
}

// BookDates ответ /book_dates
type BookDates struct {
	BookingDates []string
	WorkingDates []string
}

// Appointment одна запись внутри /book_record
type Appointment struct {
	ID       int     `json:"id"`
	Services []int64 `json:"services"`
	StaffID  int64   `json:"staff_id"`
	Datetime string  `json:"datetime"`
}

// RecordRequest тело запроса /book_record
type RecordRequest struct {
	Phone         string        `json:"phone"`
	FullName      string        `json:"fullname"`
	Email         string        `json:"email"`
	Comment       string        `json:"comment,omitempty"`
	Appointments  []Appointment `json:"appointments"`
	NotifyBySMS   int           `json:"notify_by_sms"`
	NotifyByEmail int           `json:"notify_by_email"`
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
