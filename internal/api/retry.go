package api

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// Backoff produces exponentially growing, jittered delays.
type Backoff struct {
	Base       time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter spreads each delay by ±Jitter of its value (0 disables).
	Jitter float64
}

// Delay returns the wait before retry attempt n, counting from zero.
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.Base)
	if b.Multiplier > 0 {
		d *= math.Pow(b.Multiplier, float64(attempt))
	}
	if b.Max > 0 {
		d = math.Min(d, float64(b.Max))
	}
	if b.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * b.Jitter * d
	}
	return time.Duration(d)
}

// Sleep blocks for Delay(attempt) or until ctx is done.
func (b Backoff) Sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(b.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy decides whether a failed status query is sent again.
// Submissions and login calls are never repeated.
type RetryPolicy struct {
	Backoff

	// Attempts is the number of retries after the first request.
	Attempts int
	// Statuses lists the HTTP status codes worth another attempt.
	Statuses map[int]bool
}

// DefaultRetryPolicy returns a policy with retries switched off. Raising
// Attempts retries gateway errors, throttling and timeouts.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Backoff: Backoff{
			Base:       DefaultRetryDelay,
			Max:        30 * time.Second,
			Multiplier: 2,
			Jitter:     0.2,
		},
		Attempts: DefaultMaxRetries,
		Statuses: statusSet(
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		),
	}
}

// Retryable reports whether attempt (zero based) may be followed by another
// request after a response with the given status code.
func (p *RetryPolicy) Retryable(attempt, statusCode int) bool {
	return attempt < p.Attempts && p.Statuses[statusCode]
}

func statusSet(codes ...int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
