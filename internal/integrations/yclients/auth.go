package yclients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Authenticate обменивает логин и пароль на пользовательский токен.
// Запрос подписывается только партнерским токеном.
func (c *Client) Authenticate(ctx context.Context, login, password string) (string, error) {
	env, err := c.Request(ctx, http.MethodPost, "/auth", nil, authRequest{Login: login, Password: password}, PartnerOnly())
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !errors.Is(err, ErrRateLimited) && statusErr.Status < http.StatusInternalServerError {
			msg, _ := ProviderMessage(err)
			return "", fmt.Errorf("%w: status %d: %s", ErrAuthentication, statusErr.Status, msg)
		}
		return "", err
	}

	if !env.Success() {
		return "", fmt.Errorf("%w: %s", ErrAuthentication, env.Message())
	}

	token, err := DecodeUserToken(env.Data())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	c.log.Info("yclients: user token acquired for login=%s", login)
	return token, nil
}
