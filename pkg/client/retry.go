package client

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy defines retry behavior for one logical request. A policy is
// copied when execution starts, so mutating it mid-flight has no effect on
// attempts already running.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff before jitter.
	MaxDelay time.Duration
	// RetryableStatusCodes are HTTP statuses treated as transient.
	RetryableStatusCodes map[int]struct{}
}

// DefaultRetryPolicy provides sensible defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		RetryableStatusCodes: map[int]struct{}{
			408: {},
			429: {},
			500: {},
			502: {},
			503: {},
			504: {},
		},
	}
}

// ErrorAction determines how to handle a failed attempt.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFatal
	ActionCancel
)

// ClassifyError decides whether an attempt failure is worth retrying.
// Explicit cancellation is never retried. A failure with no response
// (pure transport error) is transient. A response whose status is in the
// retryable set is transient. Everything else is fatal.
func ClassifyError(err error, policy RetryPolicy) ErrorAction {
	if err == nil {
		return ActionFatal // should not happen
	}
	if errors.Is(err, context.Canceled) {
		return ActionCancel
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode == 0 {
		// No response received. Timeouts included.
		return ActionRetry
	}
	if _, ok := policy.RetryableStatusCodes[apiErr.StatusCode]; ok {
		return ActionRetry
	}
	return ActionFatal
}

// Executor runs operations under a retry policy. It holds configuration
// only; every call to Do owns its own attempt counter and timer, so one
// Executor may serve many concurrent requests.
type Executor struct {
	Policy RetryPolicy

	// OnRetryScheduled fires before each backoff sleep with the 1-indexed
	// retry number, the total attempt budget, the chosen delay, and the
	// failure that caused the retry.
	OnRetryScheduled func(attempt, totalAttempts int, delay time.Duration, cause error)

	// OnGiveUp fires once when the final failure is about to propagate.
	OnGiveUp func(cause error)

	// sleep and jitter are injectable for tests.
	sleep  func(context.Context, time.Duration) error
	jitter func() float64
}

// NewExecutor creates an Executor with the default policy.
func NewExecutor() *Executor {
	return &Executor{Policy: DefaultRetryPolicy()}
}

// Do executes op under the executor's policy, retrying transient failures
// with exponential backoff. The successful value is returned as-is; after a
// fatal failure or exhausted retries the last error propagates unchanged.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if e == nil {
		e = NewExecutor()
	}

	policy := e.Policy
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 1 * time.Second
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 10 * time.Second
	}
	if policy.RetryableStatusCodes == nil {
		policy.RetryableStatusCodes = DefaultRetryPolicy().RetryableStatusCodes
	}

	sleep := e.sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	jitter := e.jitter
	if jitter == nil {
		jitter = defaultJitter
	}

	totalAttempts := policy.MaxRetries + 1

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, e.giveUp(ctxErr)
		}

		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		action := ClassifyError(err, policy)
		if action != ActionRetry || attempt == policy.MaxRetries {
			return zero, e.giveUp(lastErr)
		}

		// First retry is attempt 1 in the backoff formula.
		delay := time.Duration(float64(backoffDelay(attempt+1, policy)) * jitter())
		if e.OnRetryScheduled != nil {
			e.OnRetryScheduled(attempt+1, totalAttempts, delay, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, e.giveUp(sleepErr)
		}
	}

	return zero, e.giveUp(lastErr)
}

func (e *Executor) giveUp(cause error) error {
	if e.OnGiveUp != nil {
		e.OnGiveUp(cause)
	}
	return cause
}

// backoffDelay computes the pre-jitter delay for the given 1-indexed retry
// attempt: BaseDelay * 2^(attempt-1), capped at MaxDelay.
func backoffDelay(attempt int, policy RetryPolicy) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(policy.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}
	return time.Duration(delay)
}

// defaultJitter returns a multiplier uniform in [0.5, 1.5) to avoid
// thundering-herd synchronization across concurrent clients.
func defaultJitter() float64 {
	return 0.5 + rand.Float64()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
