package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Переменные окружения с секретами. Имеют приоритет над config.toml
const (
	EnvPartnerToken  = "YCLIENTS_PARTNER_TOKEN"
	EnvUserToken     = "YCLIENTS_USER_TOKEN"
	EnvLogin         = "YCLIENTS_LOGIN"
	EnvPassword      = "YCLIENTS_PASSWORD"
	EnvDBPassword    = "DB_PASSWORD"
	EnvRedisPassword = "REDIS_PASSWORD"
)

// Бэкенды кэша и защиты от повторной отправки
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config конфигурация приложения
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	YClients     YClientsConfig     `toml:"yclients"`
	Cache        CacheConfig        `toml:"cache"`
	Redis        RedisConfig        `toml:"redis"`
	Availability AvailabilityConfig `toml:"availability"`
	Reconcile    ReconcileConfig    `toml:"reconcile"`
	Booking      BookingConfig      `toml:"booking"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=0"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"required,min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// YClientsConfig настройки интеграции с YClients
type YClientsConfig struct {
	BaseURL           string  `toml:"base_url" validate:"required,url"`
	CompanyID         int64   `toml:"company_id" validate:"required,min=1"`
	PartnerToken      string  `toml:"partner_token" validate:"required"`
	UserToken         string  `toml:"user_token"`
	Login             string  `toml:"login"`
	Password          string  `toml:"password"`
	Timeout           int     `toml:"timeout" validate:"min=1,max=120"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"min=0"`
	Burst             int     `toml:"burst" validate:"min=0"`
}

// TimeoutDuration таймаут запроса к провайдеру
func (c YClientsConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CacheConfig кэш справочников сотрудников и услуг
type CacheConfig struct {
	Backend      string `toml:"backend" validate:"oneof=memory redis"`
	DirectoryTTL int    `toml:"directory_ttl" validate:"min=0"`
	Size         int    `toml:"size" validate:"min=1"`
	Prefix       string `toml:"prefix"`
}

// RedisConfig подключение к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"min=0"`
}

// AvailabilityConfig подбор мастеров и времени
type AvailabilityConfig struct {
	FallbackConcurrency int `toml:"fallback_concurrency" validate:"min=1,max=32"`
}

// ReconcileConfig сверка каталога
type ReconcileConfig struct {
	Concurrency int `toml:"concurrency" validate:"min=1,max=32"`
}

// BookingConfig запись клиентов
type BookingConfig struct {
	NotifyBySMSHours   int `toml:"notify_by_sms_hours" validate:"min=0"`
	NotifyByEmailHours int `toml:"notify_by_email_hours" validate:"min=0"`
	// ConfirmationTTL сколько секунд токен подтверждения считается использованным
	ConfirmationTTL int `toml:"confirmation_ttl" validate:"min=1"`
	// GuardSize емкость хранилища токенов в режиме memory, отдельного от кэша справочников
	GuardSize int `toml:"guard_size" validate:"min=1"`
}

// Load загружает конфигурацию из TOML файла, затем секреты из .env и окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Redis.Addr == "" {
		return errors.New("config validation failed: redis.addr is required for redis cache backend")
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.YClients.PartnerToken, EnvPartnerToken)
	setFromEnv(&c.YClients.UserToken, EnvUserToken)
	setFromEnv(&c.YClients.Login, EnvLogin)
	setFromEnv(&c.YClients.Password, EnvPassword)
	setFromEnv(&c.Database.Password, EnvDBPassword)
	setFromEnv(&c.Redis.Password, EnvRedisPassword)
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking",
		},
		YClients: YClientsConfig{
			BaseURL:           "https://api.yclients.com/api/v1",
			Timeout:           15,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Backend:      CacheBackendMemory,
			DirectoryTTL: 600,
			Size:         1024,
			Prefix:       "yclients:",
		},
		Availability: AvailabilityConfig{FallbackConcurrency: 4},
		Reconcile:    ReconcileConfig{Concurrency: 4},
		Booking: BookingConfig{
			NotifyBySMSHours:   24,
			NotifyByEmailHours: 0,
			ConfirmationTTL:    600,
			GuardSize:          10000,
		},
	}
}
