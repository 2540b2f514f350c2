package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/platform/timer"
	"github.com/sourcegraph/conc/pool"
)

// LiveRefresher re-fetches a person's live results past any cache.
type LiveRefresher interface {
	RefreshPersonResults(ctx context.Context, personID string) error
}

type LiveWatchConfig struct {
	PollInterval time.Duration
	Idle         time.Duration
	Workers      int
}

// LiveWatchService polls WCA Live for persons that were viewed recently.
// A person stops being polled once nobody asked for them for Idle.
type LiveWatchService struct {
	refresher LiveRefresher
	cfg       LiveWatchConfig
	logger    *logging.Logger

	mu      sync.Mutex
	watched map[string]struct{}
	idle    *timer.Debouncer[string]
}

func NewLiveWatchService(refresher LiveRefresher, cfg LiveWatchConfig, logger *logging.Logger) *LiveWatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	s := &LiveWatchService{
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
		watched:   make(map[string]struct{}),
	}
	s.idle = timer.NewDebouncer(cfg.Idle, s.forget)
	return s
}

func (s *LiveWatchService) Watch(personID string) {
	if personID == "" {
		return
	}
	s.mu.Lock()
	s.watched[personID] = struct{}{}
	started := s.idle.Touch(personID)
	s.mu.Unlock()

	if started {
		s.logger.Debug("live watch started", "person_id", personID)
	}
}

// Watched lists the persons currently polled, sorted.
func (s *LiveWatchService) Watched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.watched))
	for personID := range s.watched {
		out = append(out, personID)
	}
	sort.Strings(out)
	return out
}

// Run polls until ctx is done.
func (s *LiveWatchService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every watched person once on a bounded pool.
func (s *LiveWatchService) RefreshAll(ctx context.Context) {
	persons := s.Watched()
	if len(persons) == 0 {
		return
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.cfg.Workers)
	for _, personID := range persons {
		p.Go(func(ctx context.Context) error {
			if err := s.refresher.RefreshPersonResults(ctx, personID); err != nil {
				s.logger.WarnContext(ctx, "live refresh failed", "person_id", personID, "error", err)
				return err
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		s.logger.DebugContext(ctx, "live refresh round finished with errors", "persons", len(persons))
	}
}

func (s *LiveWatchService) Close() {
	s.idle.Stop()
}

// forget runs when a person's idle timer fires. A Watch that re-armed the
// timer after it fired keeps the person.
func (s *LiveWatchService) forget(personID string) {
	s.mu.Lock()
	if s.idle.Pending(personID) {
		s.mu.Unlock()
		return
	}
	delete(s.watched, personID)
	s.mu.Unlock()
	s.logger.Debug("live watch expired", "person_id", personID)
}
