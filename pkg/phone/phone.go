// Package phone приводит номера телефонов клиентов к единому виду,
// в котором они передаются в YClients.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

const (
	countryCode = '7'
	trunkPrefix = '8'
	length      = 11
)

// ErrInvalidPhone возвращается, когда после нормализации номер не состоит из 11 цифр
var ErrInvalidPhone = errors.New("phone: invalid phone number")

// Normalize оставляет только цифры, заменяет ведущую 8 на 7,
// добавляет 7 при её отсутствии и проверяет длину (11 цифр).
// Повторная нормализация результата возвращает его без изменений.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("%w: no digits in %q", ErrInvalidPhone, raw)
	}

	if digits[0] == trunkPrefix {
		digits = string(countryCode) + digits[1:]
	}
	if digits[0] != countryCode {
		digits = string(countryCode) + digits
	}

	if len(digits) != length {
		return "", fmt.Errorf("%w: expected %d digits, got %d", ErrInvalidPhone, length, len(digits))
	}

	return digits, nil
}
