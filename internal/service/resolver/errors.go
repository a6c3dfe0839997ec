package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrMappingNotFound ни один активный вариант не ссылается на услугу провайдера
	ErrMappingNotFound = errors.New("resolver: mapping not found")

	// ErrMappingConflict варианты с одним внешним ID принадлежат разным услугам
	ErrMappingConflict = errors.New("resolver: mapping conflict")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resolver: internal error")
)

// MappingConflictError конфликт сопоставления с перечнем услуг.
// Никогда не разрешается автоматически.
type MappingConflictError struct {
	ExternalID string
	Services   []domain.Service
}

func (e *MappingConflictError) Error() string {
	names := make([]string, 0, len(e.Services))
	for _, s := range e.Services {
		names = append(names, fmt.Sprintf("%d:%s", s.ID, s.Name))
	}
	return fmt.Sprintf("%s: external id %q maps to services [%s]", ErrMappingConflict.Error(), e.ExternalID, strings.Join(names, ", "))
}

func (e *MappingConflictError) Unwrap() error {
	return ErrMappingConflict
}
