package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

// instantExecutor skips real sleeps and pins jitter to 1.0 so delays are
// deterministic.
func instantExecutor(policy RetryPolicy) (*Executor, *[]time.Duration) {
	delays := &[]time.Duration{}
	e := &Executor{
		Policy: policy,
		sleep: func(ctx context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return ctx.Err()
		},
		jitter: func() float64 { return 1.0 },
	}
	return e, delays
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	e, delays := instantExecutor(DefaultRetryPolicy())

	calls := 0
	got, err := Do(context.Background(), e, func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no sleeps, got %d", len(*delays))
	}
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	e, delays := instantExecutor(DefaultRetryPolicy())

	calls := 0
	got, err := Do(context.Background(), e, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &APIError{StatusCode: 503, Message: "unavailable"}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected ok, got %s", got)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if len(*delays) != 2 {
		t.Errorf("Expected 2 sleeps, got %d", len(*delays))
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.MaxRetries = 2
	e, delays := instantExecutor(policy)

	cause := &APIError{StatusCode: 500, Message: "boom"}
	calls := 0
	_, err := Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, cause
	})
	// Initial attempt plus MaxRetries.
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	if len(*delays) != 2 {
		t.Errorf("Expected 2 sleeps, got %d", len(*delays))
	}
	// The last failure propagates unchanged.
	if !errors.Is(err, cause) {
		t.Errorf("Expected original error, got %v", err)
	}
}

func TestDo_FatalErrorNotRetried(t *testing.T) {
	e, delays := instantExecutor(DefaultRetryPolicy())

	calls := 0
	_, err := Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, &APIError{StatusCode: 400, Message: "bad request"}
	})
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no sleeps, got %d", len(*delays))
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Errorf("Expected 400 APIError, got %v", err)
	}
}

func TestDo_CancellationNotRetried(t *testing.T) {
	e, delays := instantExecutor(DefaultRetryPolicy())

	calls := 0
	_, err := Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, context.Canceled
	})
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no sleeps, got %d", len(*delays))
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDo_ZeroMaxRetriesSingleAttempt(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.MaxRetries = 0
	e, _ := instantExecutor(policy)

	calls := 0
	_, err := Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, &APIError{StatusCode: 503}
	})
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if err == nil {
		t.Error("Expected error")
	}
}

func TestDo_Callbacks(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.MaxRetries = 2
	e, _ := instantExecutor(policy)

	type retryEvent struct {
		attempt, total int
		delay          time.Duration
	}
	var retries []retryEvent
	var gaveUp []error
	e.OnRetryScheduled = func(attempt, total int, delay time.Duration, cause error) {
		retries = append(retries, retryEvent{attempt, total, delay})
	}
	e.OnGiveUp = func(cause error) {
		gaveUp = append(gaveUp, cause)
	}

	cause := &APIError{StatusCode: 502}
	_, _ = Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, cause
	})

	if len(retries) != 2 {
		t.Fatalf("Expected 2 retry events, got %d", len(retries))
	}
	for i, ev := range retries {
		if ev.attempt != i+1 {
			t.Errorf("Event %d: expected attempt %d, got %d", i, i+1, ev.attempt)
		}
		if ev.total != 3 {
			t.Errorf("Event %d: expected total 3, got %d", i, ev.total)
		}
	}
	// With jitter pinned to 1.0, delays follow the raw schedule.
	if retries[0].delay != 1*time.Second {
		t.Errorf("Expected first delay 1s, got %s", retries[0].delay)
	}
	if retries[1].delay != 2*time.Second {
		t.Errorf("Expected second delay 2s, got %s", retries[1].delay)
	}
	if len(gaveUp) != 1 || !errors.Is(gaveUp[0], cause) {
		t.Errorf("Expected one give-up with original cause, got %v", gaveUp)
	}
}

func TestDo_GiveUpFiresOnFatal(t *testing.T) {
	e, _ := instantExecutor(DefaultRetryPolicy())

	var gaveUp error
	e.OnGiveUp = func(cause error) { gaveUp = cause }

	cause := &APIError{StatusCode: 404}
	_, _ = Do(context.Background(), e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, cause
	})
	if !errors.Is(gaveUp, cause) {
		t.Errorf("Expected give-up with cause, got %v", gaveUp)
	}
}

func TestDo_ContextCanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Executor{
		Policy: DefaultRetryPolicy(),
		sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
		jitter: func() float64 { return 1.0 },
	}

	calls := 0
	_, err := Do(ctx, e, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, &APIError{StatusCode: 503}
	})
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	policy := RetryPolicy{BaseDelay: 1 * time.Second, MaxDelay: 10 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
		{10, 10 * time.Second},
	}
	for _, tt := range tests {
		if got := backoffDelay(tt.attempt, policy); got != tt.want {
			t.Errorf("backoffDelay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}

	// Monotonically non-decreasing up to the cap.
	prev := time.Duration(0)
	for attempt := 1; attempt <= 12; attempt++ {
		d := backoffDelay(attempt, policy)
		if d < prev {
			t.Errorf("backoffDelay(%d) = %s decreased from %s", attempt, d, prev)
		}
		prev = d
	}
}

func TestDefaultJitterRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		j := defaultJitter()
		if j < 0.5 || j >= 1.5 {
			t.Fatalf("Jitter %f out of [0.5, 1.5)", j)
		}
	}
}

func TestClassifyError(t *testing.T) {
	policy := DefaultRetryPolicy()

	tests := []struct {
		name string
		err  error
		want ErrorAction
	}{
		{"cancellation", context.Canceled, ActionCancel},
		{"transport failure", errors.New("connection refused"), ActionRetry},
		{"timeout", context.DeadlineExceeded, ActionRetry},
		{"retryable 503", &APIError{StatusCode: 503}, ActionRetry},
		{"retryable 429", &APIError{StatusCode: 429}, ActionRetry},
		{"retryable 408", &APIError{StatusCode: 408}, ActionRetry},
		{"fatal 400", &APIError{StatusCode: 400}, ActionFatal},
		{"fatal 401", &APIError{StatusCode: 401}, ActionFatal},
		{"fatal 404", &APIError{StatusCode: 404}, ActionFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err, policy); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
