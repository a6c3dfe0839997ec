package cache

import "errors"

var (
	// ErrInvalidSize возвращается при неположительном размере in-memory кэша
	ErrInvalidSize = errors.New("cache: size must be positive")

	// ErrBackend возвращается при ошибке хранилища
	ErrBackend = errors.New("cache: backend error")
)
