package availability

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

var (
	// ErrVariantNotFound возвращается, когда вариант услуги не найден
	ErrVariantNotFound = errors.New("availability: variant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// Коды предупреждений, с которыми HTTP слой отдает пустой список вместо ошибки
const (
	WarningProviderTimeout     = "provider_timeout"
	WarningProviderUnavailable = "provider_unavailable"
	WarningProviderError       = "provider_error"
)

// Advisory решает, можно ли показать пользователю пустой список с предупреждением.
// Ограничение частоты и локальные ошибки такому смягчению не подлежат.
func Advisory(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, yclients.ErrRateLimited):
		return "", false
	case errors.Is(err, context.Canceled):
		return "", false
	case errors.Is(err, yclients.ErrRemoteTimeout):
		return WarningProviderTimeout, true
	case errors.Is(err, yclients.ErrRemoteUnavailable):
		return WarningProviderUnavailable, true
	case errors.Is(err, yclients.ErrRemoteStatus),
		errors.Is(err, yclients.ErrRemoteProtocol),
		errors.Is(err, yclients.ErrNotSucceeded):
		return WarningProviderError, true
	default:
		return "", false
	}
}
