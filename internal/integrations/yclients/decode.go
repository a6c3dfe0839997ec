package yclients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Разные версии API присылают одни и те же поля то числом, то строкой.
// Весь разбор форм ответа собран в этом файле.

type flexInt64 int64

func (v *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("not an integer: %s", data)
		}
		n = int64(f)
	}
	*v = flexInt64(n)
	return nil
}

type flexFloat64 float64

func (v *flexFloat64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*v = flexFloat64(f)
	return nil
}

type flexBool bool

func (v *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	switch s {
	case "true", "1":
		*v = true
	case "false", "0", "", "null":
		*v = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a boolean: %s", data)
		}
		*v = n != 0
	}
	return nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}

// DecodeStaff разбирает список сотрудников
func DecodeStaff(data json.RawMessage) ([]Staff, error) {
	if isEmptyJSON(data) {
		return []Staff{}, nil
	}
	var staff []Staff
	if err := json.Unmarshal(data, &staff); err != nil {
		return nil, fmt.Errorf("%w: staff list: %v", ErrRemoteProtocol, err)
	}
	return staff, nil
}

// DecodeServices разбирает список услуг: массив или объект {"services": [...]}
func DecodeServices(data json.RawMessage) ([]Service, error) {
	if isEmptyJSON(data) {
		return []Service{}, nil
	}

	var services []Service
	if err := json.Unmarshal(data, &services); err == nil {
		return services, nil
	}

	var wrapped struct {
		Services *[]Service `json:"services"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Services == nil {
		return nil, fmt.Errorf("%w: unexpected services shape", ErrRemoteProtocol)
	}
	return *wrapped.Services, nil
}

// DecodeBookDates разбирает /book_dates. Отсутствие booking_dates дает пустой список
func DecodeBookDates(data json.RawMessage) (*BookDates, error) {
	result := &BookDates{BookingDates: []string{}, WorkingDates: []string{}}
	if isEmptyJSON(data) {
		return result, nil
	}

	// Некоторые версии отдают сразу массив дат
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		result.BookingDates = plain
		return result, nil
	}

	var payload struct {
		BookingDates []string `json:"booking_dates"`
		WorkingDates []string `json:"working_dates"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: book dates: %v", ErrRemoteProtocol, err)
	}
	if payload.BookingDates != nil {
		result.BookingDates = payload.BookingDates
	}
	if payload.WorkingDates != nil {
		result.WorkingDates = payload.WorkingDates
	}
	return result, nil
}

type rawSlot struct {
	Time         *string    `json:"time"`
	Datetime     *string    `json:"datetime"`
	SeanceLength *flexInt64 `json:"seance_length"`
}

// DecodeTimeSlots приводит слоты к HH:MM. Поддерживаемые формы data:
// массив строк, массив объектов с time или datetime, объект {"<date>": [...]}.
// Дубликаты времени отбрасываются, порядок сохраняется.
func DecodeTimeSlots(data json.RawMessage, date string) ([]domain.TimeSlot, error) {
	if isEmptyJSON(data) {
		return []domain.TimeSlot{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var byDate map[string]json.RawMessage
		if mapErr := json.Unmarshal(data, &byDate); mapErr != nil {
			return nil, fmt.Errorf("%w: unexpected times shape", ErrRemoteProtocol)
		}
		inner, ok := byDate[date]
		if !ok {
			return []domain.TimeSlot{}, nil
		}
		return DecodeTimeSlots(inner, date)
	}

	slots := make([]domain.TimeSlot, 0, len(items))
	seen := make(map[types.TimeString]struct{}, len(items))
	for i, item := range items {
		slot, err := decodeSlot(item)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrRemoteProtocol, i, err)
		}
		if _, dup := seen[slot.Time]; dup {
			continue
		}
		seen[slot.Time] = struct{}{}
		slots = append(slots, slot)
	}
	return slots, nil
}

func decodeSlot(item json.RawMessage) (domain.TimeSlot, error) {
	var plain string
	if err := json.Unmarshal(item, &plain); err == nil {
		t, err := clockTime(plain)
		if err != nil {
			return domain.TimeSlot{}, err
		}
		return domain.TimeSlot{Time: t}, nil
	}

	var raw rawSlot
	if err := json.Unmarshal(item, &raw); err != nil {
		return domain.TimeSlot{}, err
	}

	var source string
	switch {
	case raw.Time != nil && *raw.Time != "":
		source = *raw.Time
	case raw.Datetime != nil && *raw.Datetime != "":
		source = *raw.Datetime
	default:
		return domain.TimeSlot{}, fmt.Errorf("slot has neither time nor datetime")
	}

	t, err := clockTime(source)
	if err != nil {
		return domain.TimeSlot{}, err
	}

	// у объекта без seance_length емкость нулевая
	slot := domain.TimeSlot{Time: t, HasCapacity: true}
	if raw.SeanceLength != nil {
		slot.CapacitySeconds = int(*raw.SeanceLength)
	}
	return slot, nil
}

// clockTime извлекает HH:MM из "09:00", "09:00:00",
// "2024-05-01T09:00:00+03:00" или "2024-05-01 09:00:00"
func clockTime(s string) (types.TimeString, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[i+1:]
	}
	if len(s) > 5 {
		s = s[:5]
	}
	return types.NewTimeStringFromString(s)
}

// maxRecordDepth ограничивает поиск записи во вложенных полях
const maxRecordDepth = 3

var recordContainers = []string{"data", "record", "records", "result"}

// DecodeRecord достает созданную запись: объект, первый элемент списка
// или объект под вложенным ключом. Поле record_id обязательно.
func DecodeRecord(data json.RawMessage) (*domain.BookingResult, error) {
	if result, ok := findRecord(data, 0); ok {
		return result, nil
	}
	return nil, fmt.Errorf("%w: created record not found in response", ErrRemoteProtocol)
}

func findRecord(raw json.RawMessage, depth int) (*domain.BookingResult, bool) {
	if depth > maxRecordDepth || isEmptyJSON(raw) {
		return nil, false
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return findRecord(list[0], depth+1)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	if idRaw, ok := obj["record_id"]; ok {
		var id flexInt64
		if err := json.Unmarshal(idRaw, &id); err == nil && id != 0 {
			var hash string
			if hashRaw, ok := obj["record_hash"]; ok {
				_ = json.Unmarshal(hashRaw, &hash)
			}
			return &domain.BookingResult{BookingID: int64(id), BookingHash: hash}, true
		}
	}

	for _, key := range recordContainers {
		if nested, ok := obj[key]; ok {
			if result, found := findRecord(nested, depth+1); found {
				return result, true
			}
		}
	}
	return nil, false
}

// DecodeUserToken достает user_token из ответа /auth
func DecodeUserToken(data json.RawMessage) (string, error) {
	var payload struct {
		UserToken string `json:"user_token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.UserToken == "" {
		return "", fmt.Errorf("%w: user_token missing", ErrRemoteProtocol)
	}
	return payload.UserToken, nil
}
