package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "wcif", nil
	}

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			v, err := Load(context.Background(), store, "wcif:Euro2024", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "wcif" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
	if store.Len() != 0 {
		t.Fatalf("expected store to be empty, got=%d", store.Len())
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("upstream down")
		}
		return 7, nil
	}

	if _, err := Load(context.Background(), store, "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	got, err := Load(context.Background(), store, "k", loader)
	if err != nil || got != 7 {
		t.Fatalf("expected retry to load 7, got=%d err=%v", got, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "live:1", 1)
	store.Set(ctx, "live:2", 2)
	store.Set(ctx, "wcif:1", 3)

	store.DeletePrefix(ctx, "live:")
	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got=%d", store.Len())
	}
	if _, ok := store.Get(ctx, "wcif:1"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestLoad_TypeMismatch(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(context.Background(), "k", "text")
	if _, err := Load(context.Background(), store, "k", func(context.Context) (int, error) { return 1, nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestStore_GetOrLoad_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	loader := func(ctx context.Context) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "wcif", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Load(firstCtx, store, "wcif:Euro2024", loader)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		value string
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		v, err := Load(context.Background(), store, "wcif:Euro2024", loader)
		second <- outcome{value: v, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller: got=%v want=%v", err, context.Canceled)
	}

	close(release)
	got := <-second
	if got.err != nil || got.value != "wcif" {
		t.Fatalf("second caller: got=%q err=%v", got.value, got.err)
	}
	if calls.Load() != 1 {
		t.Fatalf("loader called %d times, want 1", calls.Load())
	}
	if _, ok := store.Get(context.Background(), "wcif:Euro2024"); !ok {
		t.Fatalf("expected shared load to populate the cache")
	}
}
