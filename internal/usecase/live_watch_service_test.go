package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingRefresher struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (r *countingRefresher) RefreshPersonResults(_ context.Context, personID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[personID]++
	if r.fail[personID] {
		return errors.New("upstream down")
	}
	return nil
}

func (r *countingRefresher) count(personID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[personID]
}

func TestLiveWatchService_RefreshAllCoversEveryWatchedPerson(t *testing.T) {
	t.Parallel()

	refresher := &countingRefresher{fail: map[string]bool{"2": true}}
	service := NewLiveWatchService(refresher, LiveWatchConfig{Idle: time.Minute, Workers: 2}, nil)
	defer service.Close()

	service.Watch("1")
	service.Watch("2")
	service.Watch("1")
	service.Watch("")

	watched := service.Watched()
	if len(watched) != 2 || watched[0] != "1" || watched[1] != "2" {
		t.Fatalf("unexpected watched set: %v", watched)
	}

	service.RefreshAll(context.Background())
	if refresher.count("1") != 1 || refresher.count("2") != 1 {
		t.Fatalf("expected one refresh each, got 1=%d 2=%d", refresher.count("1"), refresher.count("2"))
	}
}

func TestLiveWatchService_DropsIdlePersons(t *testing.T) {
	t.Parallel()

	service := NewLiveWatchService(&countingRefresher{}, LiveWatchConfig{Idle: 20 * time.Millisecond}, nil)
	defer service.Close()

	service.Watch("1")
	deadline := time.Now().Add(time.Second)
	for len(service.Watched()) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected idle person to be dropped, still watching %v", service.Watched())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLiveWatchService_RunPollsUntilCancelled(t *testing.T) {
	t.Parallel()

	refresher := &countingRefresher{}
	service := NewLiveWatchService(refresher, LiveWatchConfig{PollInterval: 10 * time.Millisecond, Idle: time.Minute}, nil)
	defer service.Close()
	service.Watch("1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for refresher.count("1") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected repeated refreshes, got=%d", refresher.count("1"))
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}

func TestLiveWatchService_StaleExpiryKeepsRewatchedPerson(t *testing.T) {
	t.Parallel()

	service := NewLiveWatchService(&countingRefresher{}, LiveWatchConfig{Idle: time.Minute}, nil)
	defer service.Close()

	service.Watch("1")
	// An expiry that lost the race against the Watch above.
	service.forget("1")

	if watched := service.Watched(); len(watched) != 1 || watched[0] != "1" {
		t.Fatalf("got=%v want=[1]", watched)
	}
}
