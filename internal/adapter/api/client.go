package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mmcdole/crates/internal/domain"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "crates-tui/1.0"

	// AuthHeader carries the opaque session token
	AuthHeader = "x-crates-auth-token"

	// CorrelationHeader tags each request for server-side log lookup
	CorrelationHeader = "X-Correlation-ID"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Logger    *slog.Logger

	// BreakerFailures is the number of consecutive transport failures that
	// open the circuit. 0 uses the default of 5.
	BreakerFailures uint32

	// OnUnauthorized is invoked whenever the server answers 401
	OnUnauthorized func()
}

// Client implements domain.API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

var _ domain.API = (*Client)(nil)

// NewClient creates a new crates API client
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	c := &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, 1),
		logger:         logger,
		token:          opts.Token,
		onUnauthorized: opts.OnUnauthorized,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "crates-api",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Only an unreachable server counts against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrServerOffline)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("api circuit state changed", "from", from.String(), "to", to.String())
		},
	})
	return c
}

// SetToken updates the authentication token
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current authentication token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized replaces the 401 hook
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// doRequest performs an authenticated HTTP request and returns the body
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, method, path, query, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	return body, err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	correlationID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(CorrelationHeader, correlationID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(AuthHeader, token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL, "correlation_id", correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("api request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("api request unauthorized", "path", path)
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook()
		}
		return nil, domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, path, body)
		c.logger.Error("api request error", "status", resp.StatusCode, "detail", apiErr.Detail(), "correlation_id", correlationID)
		return nil, apiErr
	}

	return body, nil
}

// parseAPIError decodes the server's error body, tolerating non-JSON bodies
func parseAPIError(status int, path string, body []byte) *domain.APIError {
	apiErr := &domain.APIError{}
	if len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	if apiErr.ErrorText == "" {
		apiErr.ErrorText = http.StatusText(status)
	}
	if apiErr.Path == "" {
		apiErr.Path = path
	}
	return apiErr
}

// getJSON issues a GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// sendJSON issues a mutating request and decodes the body into out when
// out is non-nil and the body is not empty.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := c.doRequest(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return decode(body, out)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// pageQuery builds the common page/size/sort/search parameters
func pageQuery(p domain.Pageable, sort, search string) url.Values {
	if p.Size <= 0 {
		p.Size = domain.DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	if sort != "" {
		q.Set("sort", sort)
	}
	if search != "" {
		q.Set("search", search)
	}
	return q
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf(format, args...)
}
