package yclients

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope разобранный ответ провайдера целиком.
// Структура data различается между эндпоинтами, поэтому конверт хранит
// все поля верхнего уровня как есть.
type Envelope struct {
	fields map[string]json.RawMessage
}

// ParseEnvelope разбирает тело ответа. Тело должно быть JSON-объектом
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrRemoteProtocol)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteProtocol, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: body is null", ErrRemoteProtocol)
	}

	return &Envelope{fields: fields}, nil
}

// Field возвращает поле верхнего уровня или nil
func (e *Envelope) Field(name string) json.RawMessage {
	return e.fields[name]
}

// Success значение поля success. Отсутствие поля считается успехом
func (e *Envelope) Success() bool {
	raw, ok := e.fields["success"]
	if !ok {
		return true
	}
	var v flexBool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return bool(v)
}

// Data поле data или nil
func (e *Envelope) Data() json.RawMessage {
	return e.fields["data"]
}

// HasData true, если data присутствует и не пуста (null, [], {})
func (e *Envelope) HasData() bool {
	return !isEmptyJSON(e.Data())
}

// Message текст из meta.message. meta бывает объектом, списком объектов
// или пустым списком; для старых ответов проверяется и message верхнего уровня.
func (e *Envelope) Message() string {
	if meta, ok := e.fields["meta"]; ok {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(meta, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}

		var list []struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(meta, &list); err == nil {
			for _, item := range list {
				if item.Message != "" {
					return item.Message
				}
			}
		}
	}

	var msg string
	if raw, ok := e.fields["message"]; ok && json.Unmarshal(raw, &msg) == nil {
		return msg
	}
	return ""
}
