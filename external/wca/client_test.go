package wca

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/platform/resilience"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
)

const sampleWcif = `{
  "id": "BerlinOpen2025",
  "name": "Berlin Open 2025",
  "persons": [
    {"name": "Jane Doe", "wcaId": null, "wcaUserId": 7, "registrantId": 42, "countryIso2": "DE",
     "registration": {"eventIds": ["333"], "status": "accepted"},
     "assignments": [{"activityId": 9, "assignmentCode": "competitor"}]}
  ],
  "events": [{"id": "333", "rounds": [{"id": "333-r1", "format": "a", "scrambleSetCount": 2}]}],
  "schedule": {
    "startDate": "2025-05-03",
    "numberOfDays": 1,
    "venues": [{"id": 1, "name": "Hall", "timezone": "Europe/Berlin", "rooms": [{"id": 1, "name": "Main", "color": "#fff",
      "activities": [{"id": 1, "name": "3x3x3 Cube, Round 1", "activityCode": "333-r1",
        "startTime": "2025-05-03T08:00:00Z", "endTime": "2025-05-03T09:00:00Z",
        "childActivities": [{"id": 9, "name": "Group 2", "activityCode": "333-r1-g2",
          "startTime": "2025-05-03T08:30:00Z", "endTime": "2025-05-03T09:00:00Z", "assignments": []}]}]}]}]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		APIBaseURL:   server.URL,
		OriginURL:    server.URL + "/api/v0",
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_List_SendsListingQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ongoing_and_future") != "2025-05-01" || q.Get("sort") != competition.DefaultSort || q.Get("per_page") != "20" || q.Get("page") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			{"id":"BerlinOpen2025","name":"Berlin Open 2025","city":"Berlin","country_iso2":"DE","start_date":"2025-05-03","end_date":"2025-05-04","url":"https://wca/1"},
			{"id":"Bad2025","name":"Bad","start_date":"soon","end_date":"2025-05-04"}
		]`))
	})

	got, err := client.List(context.Background(), competition.ListQuery{
		OngoingAndFuture: time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC),
		Sort:             competition.DefaultSort,
		PerPage:          20,
		Page:             2,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected malformed row to be skipped, got=%d", len(got))
	}
	if got[0].DateRange() != "May 3-4, 2025" || got[0].CountryISO2 != "DE" {
		t.Fatalf("unexpected competition: %+v", got[0])
	}
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/search/competitions" || r.URL.Query().Get("q") != "berlin open" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"result":[{"id":"BerlinOpen2025","name":"Berlin Open 2025","start_date":"2025-05-03","end_date":"2025-05-03"}]}`))
	})

	got, err := client.Search(context.Background(), "berlin open")
	if err != nil || len(got) != 1 {
		t.Fatalf("search: got=%d err=%v", len(got), err)
	}

	empty, err := client.Search(context.Background(), "   ")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty search without request, got=%d err=%v", len(empty), err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got=%d", calls.Load())
	}
}

func TestClient_GetPublic_DecodesWcif(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/competitions/BerlinOpen2025/wcif/public" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(sampleWcif))
	})

	doc, err := client.GetPublic(context.Background(), "BerlinOpen2025")
	if err != nil {
		t.Fatalf("get wcif: %v", err)
	}
	if doc.Schedule == nil || len(doc.Schedule.Venues) != 1 {
		t.Fatalf("expected schedule with one venue, got %+v", doc.Schedule)
	}
	group := doc.Schedule.Venues[0].Rooms[0].Activities[0].ChildActivities[0]
	if group.ID != 9 || !group.StartTime.Equal(time.Date(2025, 5, 3, 8, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected group: %+v", group)
	}
	if doc.Persons[0].WcaID != nil || !doc.Persons[0].Selectable() {
		t.Fatalf("unexpected person: %+v", doc.Persons[0])
	}
}

func TestClient_GetPublic_MalformedDocument(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"X","name":"X","persons":[{"registrantId":1,"assignments":[{"activityId":0}]}]}`))
	})

	if _, err := client.GetPublic(context.Background(), "X"); !errors.Is(err, usecase.ErrInvalidUpstream) {
		t.Fatalf("expected ErrInvalidUpstream, got %v", err)
	}
}

func TestClient_GetPublic_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	})

	_, err := client.GetPublic(context.Background(), "Missing2025")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, calls=%d", calls.Load())
	}
}

func TestClient_RetriesThenOpensBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.GetPublic(ctx, "Flaky2025"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("call %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}
	if got := calls.Load(); got != 6 {
		t.Fatalf("expected 3 attempts per call, got=%d", got)
	}

	if _, err := client.GetPublic(ctx, "Flaky2025"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker to fail fast, got %v", err)
	}
	if got := calls.Load(); got != 6 {
		t.Fatalf("open breaker must not reach upstream, calls=%d", got)
	}
}

func TestClient_RecoversAfterTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(sampleWcif))
	})

	if _, err := client.GetPublic(context.Background(), "BerlinOpen2025"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two attempts, got=%d", calls.Load())
	}
}

func TestClient_GetPublic_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 4)
	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		_, _ = w.Write([]byte(sampleWcif))
	})
	t.Cleanup(unblock)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GetPublic(firstCtx, "BerlinOpen2025")
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := client.GetPublic(context.Background(), "BerlinOpen2025")
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller: got=%v want=%v", err, context.Canceled)
	}

	unblock()
	if err := <-secondErr; err != nil {
		t.Fatalf("second caller must not inherit the cancellation, got %v", err)
	}
}

func TestClient_GetPublic_BodyTooLarge(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"X","name":"` + strings.Repeat("x", 256) + `"}`))
	}))
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		OriginURL:    server.URL,
		MaxBodyBytes: 64,
	})

	_, err := client.GetPublic(context.Background(), "X")
	if !errors.Is(err, usecase.ErrInvalidUpstream) {
		t.Fatalf("expected ErrInvalidUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Fatalf("expected explicit size error, got %v", err)
	}
}
