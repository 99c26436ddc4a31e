package epost

import (
	"context"
	"time"

	"github.com/Quosimadu/epost-api/internal/api"
)

const (
	defaultWaitTimeout    = 10 * time.Minute
	pollInitialInterval   = 2 * time.Second
	pollMaxInterval       = 30 * time.Second
	pollBackoffMultiplier = 1.5
	pollJitterFactor      = 0.3
)

// WaitOption configures WaitForStatus.
type WaitOption func(*waitConfig)

type waitConfig struct {
	timeout time.Duration
	poll    api.Backoff
	until   func(*LetterStatus) bool
}

// WithWaitTimeout bounds the total wait. Default: 10 minutes.
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}

// WithPollInterval sets the first delay between status queries and the cap
// it backs off to. Default: 2s growing to 30s.
func WithPollInterval(initial, maxInterval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.poll.Base = initial
		c.poll.Max = maxInterval
	}
}

// WithStatus waits until the letter reaches at least the given stage.
// A processing error always ends the wait.
func WithStatus(id StatusID) WaitOption {
	return func(c *waitConfig) {
		c.until = func(s *LetterStatus) bool {
			return s.IsFinalError() || s.StatusID >= id
		}
	}
}

// WithCondition waits until fn reports true.
func WithCondition(fn func(*LetterStatus) bool) WaitOption {
	return func(c *waitConfig) {
		c.until = fn
	}
}

// WaitForStatus queries the letter's own status until the wait condition
// holds and returns the last status. By default it waits for
// StatusProcessingInPrintingCenter or a processing error; check
// IsFinalError on the result. The calling goroutine blocks between queries.
func (l *Letter) WaitForStatus(ctx context.Context, opts ...WaitOption) (*LetterStatus, error) {
	cfg := &waitConfig{
		timeout: defaultWaitTimeout,
		poll: api.Backoff{
			Base:       pollInitialInterval,
			Max:        pollMaxInterval,
			Multiplier: pollBackoffMultiplier,
			Jitter:     pollJitterFactor,
		},
	}
	WithStatus(StatusProcessingInPrintingCenter)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}

	if _, err := l.LetterID(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var last *LetterStatus
	for attempt := 0; ; attempt++ {
		status, err := l.Status(ctx, "")
		if err != nil {
			if ctx.Err() != nil && last != nil {
				return last, ctx.Err()
			}
			return nil, err
		}
		if cfg.until(status) {
			return status, nil
		}
		last = status

		if err := cfg.poll.Sleep(ctx, attempt); err != nil {
			return last, err
		}
	}
}
