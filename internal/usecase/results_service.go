package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
)

// LiveWatcher keeps recently viewed persons fresh in the background.
type LiveWatcher interface {
	Watch(personID string)
}

type PersonResultsView struct {
	Person live.PersonResults
	Events []live.EventGroup
}

type ResultsService struct {
	source  live.Source
	watcher LiveWatcher
}

func NewResultsService(source live.Source, watcher LiveWatcher) *ResultsService {
	return &ResultsService{source: source, watcher: watcher}
}

func (s *ResultsService) GetPersonResults(ctx context.Context, competitionID, personID string) (PersonResultsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.GetPersonResults")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	personID = strings.TrimSpace(personID)
	if competitionID == "" {
		return PersonResultsView{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if personID == "" {
		return PersonResultsView{}, fmt.Errorf("%w: person id is required", ErrInvalidInput)
	}

	person, exists, err := s.source.GetPersonResults(ctx, personID)
	if err != nil {
		return PersonResultsView{}, fmt.Errorf("get live results person=%s: %w", personID, err)
	}
	if !exists {
		return PersonResultsView{}, fmt.Errorf("%w: live person=%s competition=%s", ErrNotFound, personID, competitionID)
	}

	if s.watcher != nil {
		s.watcher.Watch(personID)
	}

	return PersonResultsView{
		Person: person,
		Events: live.Project(person.Results),
	}, nil
}
