package orchestrator

import (
	"context"
	"time"

	"github.com/ShayCichocki/codenexus/internal/api"
)

// RetryPolicy bounds the rate-limit retries of one pipeline stage.
// The delay before retry n (0-based) is BaseDelay * 2^n.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// RetryPolicies holds the policy of every retried stage. Agent tasks are
// never retried.
type RetryPolicies struct {
	Plan      RetryPolicy
	Integrate RetryPolicy
	Quality   RetryPolicy
}

// DefaultRetryPolicies returns the stock policies: plan 3 x 2s,
// integrate 3 x 3s, quality 2 x 2s.
func DefaultRetryPolicies() RetryPolicies {
	return RetryPolicies{
		Plan:      RetryPolicy{Attempts: 3, BaseDelay: 2 * time.Second},
		Integrate: RetryPolicy{Attempts: 3, BaseDelay: 3 * time.Second},
		Quality:   RetryPolicy{Attempts: 2, BaseDelay: 2 * time.Second},
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry runs fn up to p.Attempts times. Only rate-limit failures are
// retried; any other error, or a rate-limit error on the last attempt,
// is returned unchanged. notify, if non-nil, is called before each wait.
func Retry[T any](ctx context.Context, p RetryPolicy, sleep Sleeper, notify func(attempt int, delay time.Duration, err error), fn func() (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = SleepContext
	}

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !api.IsRateLimited(err) || attempt >= attempts-1 {
			return zero, err
		}

		delay := p.BaseDelay * time.Duration(1<<attempt)
		if notify != nil {
			notify(attempt, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, serr
		}
	}
}
