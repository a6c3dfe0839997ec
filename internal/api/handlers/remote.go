package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
)

const (
	msgRateLimited         = "превышен лимит запросов к YClients, повторите позже"
	msgRemoteTimeout       = "YClients не ответил вовремя"
	msgRemoteUnavailable   = "YClients недоступен"
	msgRemoteInvalid       = "YClients вернул некорректный ответ"
	msgRemoteAuthFailed    = "не удалось авторизоваться в YClients"
	msgRequestCanceled     = "запрос отменен"
	statusClientClosedConn = 499
)

// RespondRemoteError отвечает на ошибку YClients. Возвращает false,
// если ошибка не относится к провайдеру и должна обрабатываться вызывающим.
func RespondRemoteError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		RespondError(w, statusClientClosedConn, msgRequestCanceled)
	case errors.Is(err, yclients.ErrRateLimited):
		RespondError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, yclients.ErrRemoteTimeout):
		RespondError(w, http.StatusGatewayTimeout, msgRemoteTimeout)
	case errors.Is(err, yclients.ErrAuthentication):
		RespondError(w, http.StatusBadGateway, msgRemoteAuthFailed)
	case errors.Is(err, yclients.ErrRemoteUnavailable):
		RespondError(w, http.StatusBadGateway, msgRemoteUnavailable)
	case errors.Is(err, yclients.ErrRemoteStatus),
		errors.Is(err, yclients.ErrRemoteProtocol),
		errors.Is(err, yclients.ErrNotSucceeded):
		message := msgRemoteInvalid
		if providerMsg, ok := yclients.ProviderMessage(err); ok {
			message = providerMsg
		}
		RespondError(w, http.StatusBadGateway, message)
	default:
		return false
	}
	return true
}
