package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/yclients"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
	"github.com/m04kA/SMC-SalonBooking/internal/service/resolver"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const poolStatsInterval = 15 * time.Second

const guardPrefix = "guard:"

// Store хранилище ключей с TTL: кэш справочников или токены подтверждения
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// App собранные зависимости сервиса
type App struct {
	Metrics        *metrics.Metrics
	Cache          Store
	Guard          Store
	Client         *yclients.Client
	Resolver       *resolver.Service
	Availability   *availability.Service
	Reconciliation *reconciliation.Service
	CreateBooking  *createBookingUC.UseCase

	db          *sql.DB
	redis       *redis.Client
	stopMetrics chan struct{}
}

// New подключается к БД и Redis, создает клиента YClients и сервисы.
// При заданных логине и пароле без пользовательского токена выполняет /auth.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{stopMetrics: make(chan struct{})}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// База данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var collector dbmetrics.Collector
	if a.Metrics != nil {
		collector = a.Metrics
	}
	wrappedDB := dbmetrics.Wrap(db, collector)
	if a.Metrics != nil {
		wrappedDB.CollectPoolStats(poolStatsInterval, a.stopMetrics)
		log.Info("Database metrics collection started")
	}

	// Кэш и токены подтверждения
	if cfg.Cache.Backend == config.CacheBackendRedis {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	a.Cache, a.Guard, err = newStores(ctx, cfg, a.redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.redis != nil {
		log.Info("Redis cache connected (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		log.Info("In-memory cache initialized (size=%d, guard_size=%d)", cfg.Cache.Size, cfg.Booking.GuardSize)
	}

	// YClients
	opts := []yclients.Option{yclients.WithCache(a.Cache)}
	if cfg.YClients.RequestsPerSecond > 0 {
		burst := cfg.YClients.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, yclients.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.YClients.RequestsPerSecond), burst)))
	}
	if a.Metrics != nil {
		opts = append(opts, yclients.WithMetrics(a.Metrics))
	}
	a.Client = yclients.NewClient(yclients.Config{
		BaseURL:      cfg.YClients.BaseURL,
		CompanyID:    cfg.YClients.CompanyID,
		PartnerToken: cfg.YClients.PartnerToken,
		UserToken:    cfg.YClients.UserToken,
		Timeout:      cfg.YClients.TimeoutDuration(),
		DirectoryTTL: time.Duration(cfg.Cache.DirectoryTTL) * time.Second,
	}, log, opts...)
	log.Info("YClients client initialized (url=%s, company=%d, partner_token=%s, timeout=%ds)",
		cfg.YClients.BaseURL, cfg.YClients.CompanyID, logger.Mask(cfg.YClients.PartnerToken), cfg.YClients.Timeout)

	if cfg.YClients.UserToken == "" && cfg.YClients.Login != "" && cfg.YClients.Password != "" {
		token, err := a.Client.Authenticate(ctx, cfg.YClients.Login, cfg.YClients.Password)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("yclients auth: %w", err)
		}
		a.Client.SetUserToken(token)
		log.Info("YClients user token obtained: %s", logger.Mask(token))
	}

	// Репозиторий и сервисы
	repo := catalog.NewRepository(wrappedDB)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	a.Resolver = resolver.NewService(repo, log)
	a.Availability = availability.NewService(a.Client, repo, availability.Config{
		FallbackConcurrency: cfg.Availability.FallbackConcurrency,
	}, log)
	a.Reconciliation = reconciliation.NewService(a.Client, a.Resolver, repo, txManager, reconciliation.Config{
		Concurrency: cfg.Reconcile.Concurrency,
	}, log)
	a.CreateBooking = createBookingUC.NewUseCase(a.Client, createBookingUC.Config{
		NotifyBySMSHours:   cfg.Booking.NotifyBySMSHours,
		NotifyByEmailHours: cfg.Booking.NotifyByEmailHours,
	}, log)

	return a, nil
}

// newStores создает раздельные хранилища для кэша справочников и токенов,
// чтобы записи кэша не вытесняли токены из общего LRU.
// В режиме redis оба используют один клиент с разными префиксами
func newStores(ctx context.Context, cfg *config.Config, client *redis.Client) (directory, guard Store, err error) {
	if cfg.Cache.Backend == config.CacheBackendRedis {
		directoryCache := cache.NewRedis(client, cfg.Cache.Prefix)
		if err := directoryCache.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return directoryCache, cache.NewRedis(client, cfg.Cache.Prefix+guardPrefix), nil
	}

	directoryCache, err := cache.NewMemory(cfg.Cache.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("memory cache: %w", err)
	}
	guardStore, err := cache.NewMemory(cfg.Booking.GuardSize)
	if err != nil {
		return nil, nil, fmt.Errorf("memory guard: %w", err)
	}
	return directoryCache, guardStore, nil
}

// Close останавливает сбор метрик и закрывает соединения
func (a *App) Close() {
	select {
	case <-a.stopMetrics:
	default:
		close(a.stopMetrics)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
