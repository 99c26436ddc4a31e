package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Quosimadu/epost-api/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.epost.docuguide.com"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 0
	DefaultRetryDelay = time.Second
)

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryPolicy
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the number of retries for idempotent requests.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retry.Attempts = retries
	}
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retry.Base = delay
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Client) {
		c.retry.Statuses = statusSet(statusCodes...)
	}
}

// WithRateLimit throttles outgoing requests to limit per second with the
// given burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new API client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		retry:  DefaultRetryPolicy(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes a single API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Token is sent as a bearer credential when non-empty.
	Token string
	Body  interface{}
	// Expect lists the accepted status codes. Empty means 200 only.
	Expect []int
}

func (r *Request) accepts(statusCode int) bool {
	if len(r.Expect) == 0 {
		return statusCode == http.StatusOK
	}
	for _, code := range r.Expect {
		if code == statusCode {
			return true
		}
	}
	return false
}

// idempotent requests are the only ones eligible for retries; a letter
// submission must never be sent twice.
func (r *Request) idempotent() bool {
	return r.Method == http.MethodGet
}

// Do performs the request and decodes a successful response into result.
// Responses outside req.Expect are returned as *apierrors.APIError.
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		started := time.Now()
		resp, err := c.send(ctx, req, target, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if req.idempotent() && attempt < c.retry.Attempts {
				log.Debug("request failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
				if werr := c.retry.Sleep(ctx, attempt); werr != nil {
					return werr
				}
				continue
			}
			return &apierrors.NetworkError{Err: err, URL: target, Attempt: attempt + 1}
		}

		if !req.accepts(resp.StatusCode) && req.idempotent() && c.retry.Retryable(attempt, resp.StatusCode) {
			resp.Body.Close()
			log.Debug("retryable status", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
			if werr := c.retry.Sleep(ctx, attempt); werr != nil {
				return werr
			}
			continue
		}

		return c.handle(log, req, resp, result, time.Since(started))
	}
}

func (c *Client) send(ctx context.Context, req Request, target string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	return c.httpClient.Do(httpReq)
}

func (c *Client) handle(log *zap.Logger, req Request, resp *http.Response, result interface{}, elapsed time.Duration) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", elapsed),
	)

	if !req.accepts(resp.StatusCode) {
		apiErr := parseErrorResponse(resp.StatusCode, body)
		log.Warn("API error",
			zap.Int("status", resp.StatusCode),
			zap.String("level", string(apiErr.Level())),
			zap.String("code", apiErr.Code()),
		)
		return apiErr
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = body
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse maps an error body onto an APIError. The API answers
// with a single record or, for batch endpoints, a list of records; anything
// else is kept verbatim as the description.
func parseErrorResponse(statusCode int, body []byte) *apierrors.APIError {
	trimmed := bytes.TrimSpace(body)

	var rec apierrors.ErrorRecord
	if err := json.Unmarshal(trimmed, &rec); err == nil && (rec.Code != "" || rec.Description != "") {
		return apierrors.NewAPIError(statusCode, rec)
	}

	var recs []apierrors.ErrorRecord
	if err := json.Unmarshal(trimmed, &recs); err == nil && len(recs) > 0 {
		return apierrors.NewAPIError(statusCode, recs[0])
	}

	desc := string(trimmed)
	if desc == "" {
		desc = http.StatusText(statusCode)
	}
	return apierrors.NewAPIError(statusCode, apierrors.ErrorRecord{Description: desc})
}
