package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
)

type PrefetchConfig struct {
	Workers int
	// Limit caps how many competitions of one listing are warmed.
	Limit   int
	Timeout time.Duration
}

// PrefetchService loads WCIF documents in the background so the cache is warm
// when a listed competition is opened. Work is dropped when the pool is busy.
type PrefetchService struct {
	source  wcif.Source
	pool    *ants.Pool
	limit   int
	timeout time.Duration
	logger  *logging.Logger
}

func NewPrefetchService(source wcif.Source, cfg PrefetchConfig, logger *logging.Logger) (*PrefetchService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create prefetch pool: %w", err)
	}
	return &PrefetchService{
		source:  source,
		pool:    pool,
		limit:   cfg.Limit,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (s *PrefetchService) Enqueue(ctx context.Context, competitionIDs []string) {
	if len(competitionIDs) > s.limit {
		competitionIDs = competitionIDs[:s.limit]
	}

	// Detach from the request so prefetching outlives the response.
	base := context.WithoutCancel(ctx)
	for _, competitionID := range competitionIDs {
		err := s.pool.Submit(func() {
			jobCtx, cancel := context.WithTimeout(base, s.timeout)
			defer cancel()
			if _, err := s.source.GetPublic(jobCtx, competitionID); err != nil {
				s.logger.WarnContext(jobCtx, "prefetch wcif failed", "competition_id", competitionID, "error", err)
			}
		})
		if errors.Is(err, ants.ErrPoolOverload) {
			s.logger.DebugContext(ctx, "prefetch pool busy, skipping", "competition_id", competitionID)
			return
		}
		if err != nil {
			s.logger.WarnContext(ctx, "submit prefetch job failed", "competition_id", competitionID, "error", err)
			return
		}
	}
}

func (s *PrefetchService) Running() int {
	return s.pool.Running()
}

// Close waits up to timeout for in-flight jobs.
func (s *PrefetchService) Close(timeout time.Duration) error {
	return s.pool.ReleaseTimeout(timeout)
}
