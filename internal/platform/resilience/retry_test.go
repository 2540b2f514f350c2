package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetry_RetriesTransientOnly(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, func(int) error {
		calls++
		if calls < 3 {
			return MarkTransient(errors.New("status=503"))
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third call, got calls=%d err=%v", calls, err)
	}

	calls = 0
	permanent := errors.New("status=400")
	err = Retry(context.Background(), policy, func(int) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected single call for permanent error, got calls=%d err=%v", calls, err)
	}
}

func TestRetry_ExhaustsPolicy(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}, func(int) error {
		calls++
		return MarkTransient(errors.New("timeout"))
	})
	if !IsTransient(err) || calls != 3 {
		t.Fatalf("expected three attempts ending transient, got calls=%d err=%v", calls, err)
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, RetryPolicy{MaxRetries: 5, Backoff: time.Hour}, func(int) error {
		return MarkTransient(errors.New("reset"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestMarkTransient_SurvivesWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("fetch wcif: %w", MarkTransient(errors.New("status=502")))
	if !IsTransient(wrapped) {
		t.Fatalf("expected wrapped error to stay transient")
	}
	if IsTransient(errors.New("plain")) || IsTransient(nil) {
		t.Fatalf("unexpected transient classification")
	}
}
