package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	basecache "github.com/phillipc0/cubing-competition-api/internal/platform/cache"
)

// CompetitionSource caches listing pages and search hits.
type CompetitionSource struct {
	next  competition.Source
	cache *basecache.Store
}

func NewCompetitionSource(next competition.Source, cache *basecache.Store) *CompetitionSource {
	return &CompetitionSource{next: next, cache: cache}
}

func (s *CompetitionSource) List(ctx context.Context, query competition.ListQuery) ([]competition.Competition, error) {
	key := strings.Join([]string{
		"competition:list",
		query.OngoingAndFuture.Format(competition.DateLayout),
		query.Sort,
		strconv.Itoa(query.PerPage),
		strconv.Itoa(query.Page),
	}, ":")
	items, err := basecache.Load(ctx, s.cache, key, func(ctx context.Context) ([]competition.Competition, error) {
		return s.next.List(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return append([]competition.Competition(nil), items...), nil
}

func (s *CompetitionSource) Search(ctx context.Context, query string) ([]competition.Competition, error) {
	key := "competition:search:" + strings.ToLower(strings.TrimSpace(query))
	items, err := basecache.Load(ctx, s.cache, key, func(ctx context.Context) ([]competition.Competition, error) {
		return s.next.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return append([]competition.Competition(nil), items...), nil
}

// WcifSource caches public WCIF documents. Callers must treat the returned
// document as read-only since it is shared between requests.
type WcifSource struct {
	next  wcif.Source
	cache *basecache.Store
}

func NewWcifSource(next wcif.Source, cache *basecache.Store) *WcifSource {
	return &WcifSource{next: next, cache: cache}
}

func (s *WcifSource) GetPublic(ctx context.Context, competitionID string) (wcif.Wcif, error) {
	return basecache.Load(ctx, s.cache, "wcif:"+competitionID, func(ctx context.Context) (wcif.Wcif, error) {
		return s.next.GetPublic(ctx, competitionID)
	})
}

// LiveSource caches live results for a short time and lets the live watcher
// replace entries ahead of expiry.
type LiveSource struct {
	next  live.Source
	cache *basecache.Store
	ttl   time.Duration
}

func NewLiveSource(next live.Source, cache *basecache.Store, ttl time.Duration) *LiveSource {
	return &LiveSource{next: next, cache: cache, ttl: ttl}
}

type cachedPersonResults struct {
	value  live.PersonResults
	exists bool
}

func (s *LiveSource) GetPersonResults(ctx context.Context, personID string) (live.PersonResults, bool, error) {
	cached, err := basecache.Load(ctx, s.cache, liveKey(personID), func(ctx context.Context) (cachedPersonResults, error) {
		return s.fetch(ctx, personID)
	})
	if err != nil {
		return live.PersonResults{}, false, err
	}
	return cached.value, cached.exists, nil
}

// RefreshPersonResults fetches fresh results and overwrites the cached entry.
// On failure the previous entry is kept.
func (s *LiveSource) RefreshPersonResults(ctx context.Context, personID string) error {
	fresh, err := s.fetch(ctx, personID)
	if err != nil {
		return err
	}
	s.cache.SetWithTTL(ctx, liveKey(personID), fresh, s.ttl)
	return nil
}

func (s *LiveSource) fetch(ctx context.Context, personID string) (cachedPersonResults, error) {
	value, exists, err := s.next.GetPersonResults(ctx, personID)
	if err != nil {
		return cachedPersonResults{}, err
	}
	return cachedPersonResults{value: value, exists: exists}, nil
}

func liveKey(personID string) string {
	return "live:person:" + personID
}
