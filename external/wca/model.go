package wca

import (
	"fmt"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/competition"
)

type competitionItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	CountryISO2 string `json:"country_iso2"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	URL         string `json:"url"`
}

type searchEnvelope struct {
	Result []competitionItem `json:"result"`
}

func (c competitionItem) toDomain() (competition.Competition, error) {
	start, err := time.Parse(competition.DateLayout, c.StartDate)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("competition %q start_date: %w", c.ID, err)
	}
	end, err := time.Parse(competition.DateLayout, c.EndDate)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("competition %q end_date: %w", c.ID, err)
	}
	return competition.Competition{
		ID:          c.ID,
		Name:        c.Name,
		City:        c.City,
		CountryISO2: c.CountryISO2,
		StartDate:   start,
		EndDate:     end,
		URL:         c.URL,
	}, nil
}
