package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	wcifmock "github.com/phillipc0/cubing-competition-api/internal/mocks/domain/wcif"
	"github.com/stretchr/testify/mock"
)

func TestPrefetchService_Enqueue_RespectsLimitAndSurvivesRequestCancel(t *testing.T) {
	t.Parallel()

	source := wcifmock.NewSource(t)
	var loaded atomic.Int32
	source.
		On("GetPublic", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			if err := args.Get(0).(context.Context).Err(); err == nil {
				loaded.Add(1)
			}
		}).
		Return(wcif.Wcif{}, nil).
		Twice()

	service, err := NewPrefetchService(source, PrefetchConfig{Workers: 2, Limit: 2}, nil)
	if err != nil {
		t.Fatalf("new prefetch service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	service.Enqueue(ctx, []string{"A2025", "B2025", "C2025"})
	cancel()

	if err := service.Close(time.Second); err != nil {
		t.Fatalf("close prefetch service: %v", err)
	}
	if got := loaded.Load(); got != 2 {
		t.Fatalf("expected two live prefetch loads, got=%d", got)
	}
}

func TestPrefetchService_Enqueue_LogsFailures(t *testing.T) {
	t.Parallel()

	source := wcifmock.NewSource(t)
	source.On("GetPublic", mock.Anything, "A2025").Return(wcif.Wcif{}, errors.New("boom")).Once()

	service, err := NewPrefetchService(source, PrefetchConfig{Workers: 1, Limit: 1}, nil)
	if err != nil {
		t.Fatalf("new prefetch service: %v", err)
	}
	service.Enqueue(context.Background(), []string{"A2025"})
	if err := service.Close(time.Second); err != nil {
		t.Fatalf("close prefetch service: %v", err)
	}
}
