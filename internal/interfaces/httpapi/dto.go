package httpapi

import (
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
)

type competitionDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	CountryISO2 string `json:"countryIso2"`
	Flag        string `json:"flag,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	DateRange   string `json:"dateRange"`
	URL         string `json:"url,omitempty"`
}

type competitionDetailsDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"startDate,omitempty"`
	NumberOfDays    int    `json:"numberOfDays"`
	VenueCount      int    `json:"venueCount"`
	ActivityCount   int    `json:"activityCount"`
	CompetitorCount int    `json:"competitorCount"`
}

type scheduleDayDTO struct {
	Date       string        `json:"date"`
	Label      string        `json:"label"`
	Activities []activityDTO `json:"activities"`
}

type activityDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ActivityCode string    `json:"activityCode"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	GroupCount   int       `json:"groupCount"`
}

type competitorDTO struct {
	RegistrantID int64   `json:"registrantId"`
	Name         string  `json:"name"`
	WcaID        *string `json:"wcaId"`
	Label        string  `json:"label"`
	CountryISO2  string  `json:"countryIso2"`
	Newcomer     bool    `json:"newcomer"`
}

type userGroupDTO struct {
	GroupID         int64     `json:"groupId"`
	Name            string    `json:"name"`
	ActivityCode    string    `json:"activityCode"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	AssignmentCode  string    `json:"assignmentCode"`
	AssignmentLabel string    `json:"assignmentLabel"`
	StationNumber   *int      `json:"stationNumber,omitempty"`
}

type personResultsDTO struct {
	Person livePersonDTO   `json:"person"`
	Events []eventTableDTO `json:"events"`
}

type livePersonDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	WcaID       *string `json:"wcaId"`
	CountryISO2 string  `json:"countryIso2"`
	Flag        string  `json:"flag,omitempty"`
}

type eventTableDTO struct {
	EventID     string        `json:"eventId"`
	EventName   string        `json:"eventName"`
	ColumnCount int           `json:"columnCount"`
	Rounds      []roundRowDTO `json:"rounds"`
}

type roundRowDTO struct {
	ResultID              string       `json:"resultId"`
	RoundID               string       `json:"roundId"`
	RoundName             string       `json:"roundName"`
	RoundNumber           int          `json:"roundNumber"`
	Ranking               *int         `json:"ranking"`
	RankingLabel          string       `json:"rankingLabel"`
	Advancing             bool         `json:"advancing"`
	AdvancingQuestionable bool         `json:"advancingQuestionable"`
	Attempts              []attemptDTO `json:"attempts"`
	Average               timeDTO      `json:"average"`
	Best                  timeDTO      `json:"best"`
	AverageTag            string       `json:"averageTag,omitempty"`
	BestTag               string       `json:"bestTag,omitempty"`
}

type attemptDTO = timeDTO

type timeDTO struct {
	Centiseconds int64  `json:"centiseconds"`
	Display      string `json:"display"`
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:          c.ID,
		Name:        c.Name,
		City:        c.City,
		CountryISO2: c.CountryISO2,
		Flag:        live.FlagEmoji(c.CountryISO2),
		StartDate:   c.StartDate.Format(competition.DateLayout),
		EndDate:     c.EndDate.Format(competition.DateLayout),
		DateRange:   c.DateRange(),
		URL:         c.URL,
	}
}

func competitionDetailsToDTO(d usecase.CompetitionDetails) competitionDetailsDTO {
	return competitionDetailsDTO{
		ID:              d.ID,
		Name:            d.Name,
		StartDate:       d.StartDate,
		NumberOfDays:    d.NumberOfDays,
		VenueCount:      d.VenueCount,
		ActivityCount:   d.ActivityCount,
		CompetitorCount: d.CompetitorCount,
	}
}

func dayToDTO(day wcif.DayGroup) scheduleDayDTO {
	activities := make([]activityDTO, 0, len(day.Activities))
	for _, a := range day.Activities {
		activities = append(activities, activityDTO{
			ID:           a.ID,
			Name:         a.Name,
			ActivityCode: a.ActivityCode,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			GroupCount:   len(a.ChildActivities),
		})
	}
	return scheduleDayDTO{
		Date:       day.Key,
		Label:      day.DayLabel(),
		Activities: activities,
	}
}

func competitorToDTO(p wcif.Person) competitorDTO {
	return competitorDTO{
		RegistrantID: p.RegistrantID,
		Name:         p.Name,
		WcaID:        p.WcaID,
		Label:        p.Label(),
		CountryISO2:  p.CountryISO2,
		Newcomer:     p.IsNewcomer(),
	}
}

func userGroupToDTO(g wcif.UserGroup) userGroupDTO {
	return userGroupDTO{
		GroupID:         g.Group.ID,
		Name:            g.Group.Name,
		ActivityCode:    g.Group.ActivityCode,
		StartTime:       g.Group.StartTime,
		EndTime:         g.Group.EndTime,
		AssignmentCode:  g.Assignment.AssignmentCode,
		AssignmentLabel: wcif.AssignmentLabel(g.Assignment.AssignmentCode),
		StationNumber:   g.Assignment.StationNumber,
	}
}

func personResultsToDTO(view usecase.PersonResultsView) personResultsDTO {
	events := make([]eventTableDTO, 0, len(view.Events))
	for _, group := range view.Events {
		rounds := make([]roundRowDTO, 0, len(group.Rounds))
		for _, row := range group.Rounds {
			rounds = append(rounds, roundRowToDTO(row))
		}
		events = append(events, eventTableDTO{
			EventID:     group.Event.ID,
			EventName:   group.Event.Name,
			ColumnCount: group.ColumnCount,
			Rounds:      rounds,
		})
	}

	return personResultsDTO{
		Person: livePersonDTO{
			ID:          view.Person.ID,
			Name:        view.Person.Name,
			WcaID:       view.Person.WcaID,
			CountryISO2: view.Person.Country.ISO2,
			Flag:        live.FlagEmoji(view.Person.Country.ISO2),
		},
		Events: events,
	}
}

func roundRowToDTO(row live.RoundRow) roundRowDTO {
	attempts := make([]attemptDTO, 0, len(row.Attempts))
	for _, value := range row.Attempts {
		attempts = append(attempts, toTimeDTO(value))
	}
	return roundRowDTO{
		ResultID:              row.Result.ID,
		RoundID:               row.Result.Round.ID,
		RoundName:             row.Result.Round.Name,
		RoundNumber:           row.Result.Round.Number,
		Ranking:               row.Result.Ranking,
		RankingLabel:          live.FormatRanking(row.Result.Ranking),
		Advancing:             row.Result.Advancing,
		AdvancingQuestionable: row.Result.AdvancingQuestionable,
		Attempts:              attempts,
		Average:               toTimeDTO(row.Result.Average),
		Best:                  toTimeDTO(row.Result.Best),
		AverageTag:            row.AverageTag,
		BestTag:               row.BestTag,
	}
}

func toTimeDTO(cs int64) timeDTO {
	return timeDTO{Centiseconds: cs, Display: live.FormatCentiseconds(cs)}
}
