package resilience

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrTransient marks failures worth retrying and counting against a breaker.
var ErrTransient = crerr.New("transient dependency failure")

// MarkTransient tags err so IsTransient reports true. The message is unchanged.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, ErrTransient)
}

func IsTransient(err error) bool {
	return err != nil && crerr.Is(err, ErrTransient)
}

// Retry calls fn until it succeeds, returns a non-transient error, the
// policy is exhausted or ctx ends. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	policy = NormalizeRetryPolicy(policy)

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil || !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * policy.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
