package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"slices"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-study/internal/config"
	"github.com/thywilljoshua/pdf-study/internal/logger"
)

const maxRetryDelay = 30 * time.Second

// Retrier runs a remote call under a client-side rate limit and retries it
// on retryable status codes and network errors with exponential backoff.
type Retrier struct {
	policy  config.RetryPolicy
	limiter *rate.Limiter
	log     logger.Logger
}

// NewRetrier builds a Retrier. rpm <= 0 disables throttling.
func NewRetrier(policy config.RetryPolicy, rpm int, log logger.Logger) *Retrier {
	r := &Retrier{policy: policy, log: log}
	if rpm > 0 {
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
	return r
}

// Delay is the wait before retry number attempt (1-based).
func (r *Retrier) Delay(attempt int) time.Duration {
	d := time.Duration(float64(r.policy.BackoffFactor) * math.Pow(2, float64(attempt-1)))
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d
}

// Do calls fn until it succeeds, fails with a non-retryable error, the
// retries are used up, or ctx is done.
func (r *Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.Delay(attempt)
			r.log.Debug("retry attempt %d/%d after %v", attempt, r.policy.MaxRetries, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if !r.retryable(err) {
			return err
		}
		r.log.Warn("remote call failed on attempt %d/%d: %v", attempt+1, r.policy.MaxRetries+1, err)
	}
	if r.policy.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("max retries (%d) exceeded: %w", r.policy.MaxRetries, lastErr)
}

func (r *Retrier) retryable(err error) bool {
	if code, ok := StatusCode(err); ok {
		return slices.Contains(r.policy.StatusCodes, code)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// StatusCode digs the HTTP status out of the error types of every client
// in this package.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) && oaErr.HTTPStatusCode != 0 {
		return oaErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) && gErr.Code != 0 {
		return gErr.Code, true
	}
	return 0, false
}
