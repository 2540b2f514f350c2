package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompetitionDetails summarises a WCIF document for a competition header.
type CompetitionDetails struct {
	ID              string
	Name            string
	StartDate       string
	NumberOfDays    int
	VenueCount      int
	ActivityCount   int
	CompetitorCount int
}

type ListGroupsInput struct {
	CompetitionID string
	RegistrantID  int64
	Order         string
	Roles         string
}

type ScheduleServiceConfig struct {
	// DefaultLocation keys schedule days when the caller gives no zone. nil means time.Local.
	DefaultLocation *time.Location
	SortWithinDay   bool
	Groups          wcif.GroupOptions
	CollationTag    language.Tag
}

type ScheduleService struct {
	source wcif.Source
	cfg    ScheduleServiceConfig
}

func NewScheduleService(source wcif.Source, cfg ScheduleServiceConfig) *ScheduleService {
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.Local
	}
	if cfg.Groups.Order == "" {
		cfg.Groups.Order = wcif.OrderSchedule
	}
	if cfg.Groups.Roles == "" {
		cfg.Groups.Roles = wcif.RolesAny
	}
	return &ScheduleService{source: source, cfg: cfg}
}

func (s *ScheduleService) GetCompetition(ctx context.Context, competitionID string) (CompetitionDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetCompetition")
	defer span.End()

	doc, err := s.load(ctx, competitionID)
	if err != nil {
		return CompetitionDetails{}, err
	}

	details := CompetitionDetails{
		ID:            doc.ID,
		Name:          doc.Name,
		ActivityCount: len(wcif.Flatten(doc.Schedule)),
	}
	if doc.Schedule != nil {
		details.StartDate = doc.Schedule.StartDate
		details.NumberOfDays = doc.Schedule.NumberOfDays
		details.VenueCount = len(doc.Schedule.Venues)
	}
	for _, person := range doc.Persons {
		if person.Selectable() {
			details.CompetitorCount++
		}
	}
	return details, nil
}

// GetSchedule returns the competition's activities bucketed by day in tz,
// or in the configured default zone when tz is empty.
func (s *ScheduleService) GetSchedule(ctx context.Context, competitionID, tz string) ([]wcif.DayGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GetSchedule")
	defer span.End()

	loc := s.cfg.DefaultLocation
	if tz = strings.TrimSpace(tz); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown time zone %q", ErrInvalidInput, tz)
		}
		loc = parsed
	}

	doc, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	return wcif.GroupByDay(wcif.Flatten(doc.Schedule), loc, s.cfg.SortWithinDay), nil
}

// ListCompetitors returns accepted registrants ordered by name.
func (s *ScheduleService) ListCompetitors(ctx context.Context, competitionID string) ([]wcif.Person, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListCompetitors")
	defer span.End()

	doc, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	out := make([]wcif.Person, 0, len(doc.Persons))
	for _, person := range doc.Persons {
		if person.Selectable() {
			out = append(out, person)
		}
	}

	// Collator keeps internal buffers, so one per call.
	collator := collate.New(s.cfg.CollationTag, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

// ListGroups resolves the groups a registrant is assigned to.
func (s *ScheduleService) ListGroups(ctx context.Context, input ListGroupsInput) ([]wcif.UserGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ListGroups")
	defer span.End()

	if input.RegistrantID <= 0 {
		return nil, fmt.Errorf("%w: registrant id must be positive", ErrInvalidInput)
	}
	opts, err := s.groupOptions(input)
	if err != nil {
		return nil, err
	}

	doc, err := s.load(ctx, input.CompetitionID)
	if err != nil {
		return nil, err
	}
	if _, ok := doc.FindPerson(input.RegistrantID); !ok {
		return nil, fmt.Errorf("%w: registrant=%d competition=%s", ErrNotFound, input.RegistrantID, doc.ID)
	}

	registrantID := input.RegistrantID
	return wcif.ResolveUserGroups(doc.Schedule, doc.Persons, &registrantID, opts), nil
}

func (s *ScheduleService) groupOptions(input ListGroupsInput) (wcif.GroupOptions, error) {
	opts := s.cfg.Groups
	if strings.TrimSpace(input.Order) != "" {
		order, err := wcif.ParseGroupOrder(input.Order)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		opts.Order = order
	}
	if strings.TrimSpace(input.Roles) != "" {
		roles, err := wcif.ParseRoleFilter(input.Roles)
		if err != nil {
			return opts, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		opts.Roles = roles
	}
	return opts, nil
}

func (s *ScheduleService) load(ctx context.Context, competitionID string) (wcif.Wcif, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return wcif.Wcif{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	doc, err := s.source.GetPublic(ctx, competitionID)
	if err != nil {
		return wcif.Wcif{}, fmt.Errorf("get wcif competition=%s: %w", competitionID, err)
	}
	return doc, nil
}
