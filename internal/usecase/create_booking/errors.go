package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation возвращается, когда запрос не прошел проверку до обращения к провайдеру
	ErrValidation = errors.New("create_booking: validation failed")

	// ErrBookingRejected провайдер отказал в записи (success=false)
	ErrBookingRejected = errors.New("create_booking: booking rejected")

	// ErrBookingAmbiguousOutcome запрос на запись не дождался ответа,
	// запись могла как создаться, так и нет. Повторять нельзя без проверки
	ErrBookingAmbiguousOutcome = errors.New("create_booking: booking outcome unknown")

	// ErrBookingProtocol ответ провайдера не содержит созданной записи
	ErrBookingProtocol = errors.New("create_booking: unexpected booking response")
)

// ValidationError описывает первое невалидное поле запроса
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// BookingRejectedError отказ провайдера с его сообщением
type BookingRejectedError struct {
	Message string
}

func (e *BookingRejectedError) Error() string {
	if e.Message == "" {
		return ErrBookingRejected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBookingRejected.Error(), e.Message)
}

func (e *BookingRejectedError) Unwrap() error {
	return ErrBookingRejected
}
