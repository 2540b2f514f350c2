package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
)

const maxSearchQueryLength = 100

// Prefetcher warms downstream caches for competitions a user is likely to open next.
type Prefetcher interface {
	Enqueue(ctx context.Context, competitionIDs []string)
}

type ListCompetitionsInput struct {
	Query string
	Page  int
}

type CompetitionServiceConfig struct {
	PerPage int
	Now     func() time.Time
}

type CompetitionService struct {
	source     competition.Source
	prefetcher Prefetcher
	perPage    int
	now        func() time.Time
	logger     *logging.Logger
}

func NewCompetitionService(source competition.Source, prefetcher Prefetcher, cfg CompetitionServiceConfig, logger *logging.Logger) *CompetitionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = competition.DefaultPerPage
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CompetitionService{
		source:     source,
		prefetcher: prefetcher,
		perPage:    cfg.PerPage,
		now:        cfg.Now,
		logger:     logger,
	}
}

// List returns upcoming and ongoing competitions, or search hits when a query is given.
func (s *CompetitionService) List(ctx context.Context, input ListCompetitionsInput) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.List")
	defer span.End()

	query := strings.TrimSpace(input.Query)
	if len(query) > maxSearchQueryLength {
		return nil, fmt.Errorf("%w: query must be at most %d characters", ErrInvalidInput, maxSearchQueryLength)
	}
	if input.Page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}

	var (
		items []competition.Competition
		err   error
	)
	if query == "" {
		page := input.Page
		if page == 0 {
			page = 1
		}
		items, err = s.source.List(ctx, competition.ListQuery{
			OngoingAndFuture: s.now(),
			Sort:             competition.DefaultSort,
			PerPage:          s.perPage,
			Page:             page,
		})
		if err != nil {
			return nil, fmt.Errorf("list competitions: %w", err)
		}
	} else {
		items, err = s.source.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search competitions q=%q: %w", query, err)
		}
	}

	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "drop invalid competition", "competition_id", item.ID, "error", err)
			continue
		}
		out = append(out, item)
	}

	if query == "" && s.prefetcher != nil && len(out) > 0 {
		ids := make([]string, 0, len(out))
		for _, item := range out {
			ids = append(ids, item.ID)
		}
		s.prefetcher.Enqueue(ctx, ids)
	}

	return out, nil
}
