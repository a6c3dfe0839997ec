package yclients

import (
	"context"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ResponseCache хранилище ответов справочников (сотрудники, услуги)
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MetricsRecorder принимает замеры вызовов провайдера
type MetricsRecorder interface {
	RecordRemoteCall(remote, endpoint, outcome string, duration time.Duration)
}
