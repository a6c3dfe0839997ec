package create_booking

import createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"

// HeaderConfirmationToken токен одного подтверждения записи в мастере
const HeaderConfirmationToken = "X-Confirmation-Token"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StaffID     int64    `json:"staffId"`
	ServiceIDs  []string `json:"serviceIds"`
	Date        string   `json:"date"` // "2025-10-15"
	Time        string   `json:"time"` // "10:00"
	ClientName  string   `json:"clientName"`
	ClientPhone string   `json:"clientPhone"`
	ClientEmail string   `json:"clientEmail,omitempty"`
	Comment     *string  `json:"comment,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID   int64  `json:"bookingId"`
	BookingHash string `json:"bookingHash,omitempty"`
	StaffID     int64  `json:"staffId"`
	Datetime    string `json:"datetime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		StaffID:     r.StaffID,
		ServiceIDs:  r.ServiceIDs,
		Date:        r.Date,
		Time:        r.Time,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Comment:     r.Comment,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:   resp.BookingID,
		BookingHash: resp.BookingHash,
		StaffID:     resp.StaffID,
		Datetime:    resp.Datetime,
	}
}
