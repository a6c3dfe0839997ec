package yclients

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteTimeout запрос не уложился в таймаут
	ErrRemoteTimeout = errors.New("yclients: request timed out")

	// ErrRemoteUnavailable не удалось установить соединение или запрос прерван
	ErrRemoteUnavailable = errors.New("yclients: service unavailable")

	// ErrRemoteProtocol ответ не является JSON или имеет неожиданную структуру
	ErrRemoteProtocol = errors.New("yclients: malformed response")

	// ErrRemoteStatus HTTP статус ответа >= 400
	ErrRemoteStatus = errors.New("yclients: error status")

	// ErrRateLimited провайдер ответил 429
	ErrRateLimited = errors.New("yclients: rate limited")

	// ErrAuthentication не удалось получить пользовательский токен
	ErrAuthentication = errors.New("yclients: authentication failed")

	// ErrNotSucceeded ответ 2xx, но в конверте success=false
	ErrNotSucceeded = errors.New("yclients: request not succeeded")

	// ErrInternal ошибка подготовки запроса на нашей стороне
	ErrInternal = errors.New("yclients: internal error")
)

// StatusError ответ провайдера со статусом >= 400.
// Envelope заполнен, если тело ответа удалось разобрать как JSON-объект.
type StatusError struct {
	Status   int
	Body     []byte
	Envelope *Envelope
}

func (e *StatusError) Error() string {
	body := string(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("yclients: status %d: %s", e.Status, body)
}

// Is позволяет проверять errors.Is(err, ErrRemoteStatus) и ErrRateLimited для 429
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRemoteStatus:
		return true
	case ErrRateLimited:
		return e.Status == 429
	default:
		return false
	}
}

// FailureError провайдер вернул success=false с сообщением в meta
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	if e.Message == "" {
		return ErrNotSucceeded.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNotSucceeded.Error(), e.Message)
}

func (e *FailureError) Unwrap() error {
	return ErrNotSucceeded
}

// ProviderMessage возвращает сообщение провайдера из ошибки, если оно есть
func ProviderMessage(err error) (string, bool) {
	var failure *FailureError
	if errors.As(err, &failure) {
		return failure.Message, failure.Message != ""
	}
	var status *StatusError
	if errors.As(err, &status) && status.Envelope != nil {
		msg := status.Envelope.Message()
		return msg, msg != ""
	}
	return "", false
}
