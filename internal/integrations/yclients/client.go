package yclients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	remoteName   = "yclients"
	acceptHeader = "application/vnd.yclients.v2+json"

	// maxResponseBytes ограничивает размер читаемого ответа
	maxResponseBytes = 10 << 20
)

// Config параметры подключения к YClients
type Config struct {
	BaseURL      string
	CompanyID    int64
	PartnerToken string
	UserToken    string
	Timeout      time.Duration
	// DirectoryTTL время жизни кэша справочников сотрудников и услуг
	DirectoryTTL time.Duration
}

// Client клиент REST API YClients
type Client struct {
	baseURL      string
	companyID    int64
	partnerToken string
	directoryTTL time.Duration

	mu        sync.RWMutex
	userToken string

	httpClient *http.Client
	limiter    *rate.Limiter
	cache      ResponseCache
	metrics    MetricsRecorder
	log        Logger
}

// Option настройка клиента
type Option func(*Client)

// WithRateLimiter ограничивает частоту исходящих запросов
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithCache подключает кэш для справочных запросов
func WithCache(cache ResponseCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMetrics подключает сбор метрик вызовов
func WithMetrics(metrics MetricsRecorder) Option {
	return func(c *Client) { c.metrics = metrics }
}

// WithHTTPClient заменяет HTTP клиент (таймаут берется из него)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient создает новый экземпляр клиента YClients
func NewClient(cfg Config, log Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		companyID:    cfg.CompanyID,
		partnerToken: cfg.PartnerToken,
		userToken:    cfg.UserToken,
		directoryTTL: cfg.DirectoryTTL,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompanyID идентификатор филиала, с которым работает клиент
func (c *Client) CompanyID() int64 {
	return c.companyID
}

// SetUserToken заменяет пользовательский токен (после Authenticate)
func (c *Client) SetUserToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userToken = token
}

func (c *Client) currentUserToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userToken
}

type requestOptions struct {
	cacheTTL    time.Duration
	partnerOnly bool
}

// RequestOption настройка отдельного запроса
type RequestOption func(*requestOptions)

// Cached кэширует успешный ответ на ttl. Применяется только к GET
func Cached(ttl time.Duration) RequestOption {
	return func(o *requestOptions) { o.cacheTTL = ttl }
}

// PartnerOnly отправляет запрос без пользовательского токена
func PartnerOnly() RequestOption {
	return func(o *requestOptions) { o.partnerOnly = true }
}

// Request выполняет запрос и возвращает конверт ответа целиком.
// Ошибки: *StatusError (>= 400, для 429 также ErrRateLimited), ErrRemoteTimeout,
// ErrRemoteUnavailable, ErrRemoteProtocol.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body interface{}, opts ...RequestOption) (*Envelope, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := endpointLabel(path)
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	useCache := o.cacheTTL > 0 && c.cache != nil && method == http.MethodGet
	cacheKey := method + " " + path + "?" + query.Encode()
	if useCache {
		if env, ok := c.fromCache(ctx, cacheKey); ok {
			c.log.Debug("yclients: %s %s served from cache", method, path)
			c.record(endpoint, "cache_hit", 0)
			return env, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(ctx, err)
		}
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal body: %v", ErrInternal, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authorization(o.partnerOnly))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		mapped := transportError(ctx, err)
		c.record(endpoint, outcome(mapped), time.Since(start))
		c.log.Warn("yclients: %s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, mapped
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	if err != nil {
		mapped := transportError(ctx, err)
		c.record(endpoint, outcome(mapped), elapsed)
		return nil, mapped
	}

	c.log.Debug("yclients: %s %s status=%d elapsed=%s size=%d", method, path, resp.StatusCode, elapsed, len(raw))

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := &StatusError{Status: resp.StatusCode, Body: raw}
		if env, perr := ParseEnvelope(raw); perr == nil {
			statusErr.Envelope = env
		}
		c.record(endpoint, outcome(statusErr), elapsed)
		return nil, statusErr
	}

	env, err := ParseEnvelope(raw)
	if err != nil {
		c.record(endpoint, "protocol_error", elapsed)
		return nil, err
	}

	c.record(endpoint, "ok", elapsed)

	if useCache && env.Success() {
		if err := c.cache.Set(ctx, cacheKey, raw, o.cacheTTL); err != nil {
			c.log.Warn("yclients: failed to cache %s: %v", path, err)
		}
	}

	return env, nil
}

func (c *Client) fromCache(ctx context.Context, key string) (*Envelope, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("yclients: cache read failed for %s: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, false
	}
	return env, true
}

func (c *Client) authorization(partnerOnly bool) string {
	auth := "Bearer " + c.partnerToken
	if token := c.currentUserToken(); token != "" && !partnerOnly {
		auth += ", User " + token
	}
	return auth
}

func (c *Client) record(endpoint, result string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordRemoteCall(remoteName, endpoint, result, elapsed)
}

// transportError переводит ошибку транспорта в ошибки пакета.
// Отмена контекста остается различимой через errors.Is(err, context.Canceled).
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, context.Canceled)
	}
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrRemoteStatus):
		return "status_error"
	case errors.Is(err, ErrRemoteTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}

// endpointLabel заменяет идентификаторы в пути на {id}, чтобы не плодить метки
func endpointLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.ContainsAny(part, "0123456789") {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
