package live

// PersonResults is a competitor as known by WCA Live, with every result they have.
type PersonResults struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	WcaID   *string  `json:"wcaId"`
	Country Country  `json:"country"`
	Results []Result `json:"results" validate:"dive"`
}

type Country struct {
	ISO2 string `json:"iso2"`
}

// Result is one round result of a competitor.
type Result struct {
	ID                    string    `json:"id" validate:"required"`
	Ranking               *int      `json:"ranking"`
	Advancing             bool      `json:"advancing"`
	AdvancingQuestionable bool      `json:"advancingQuestionable"`
	Attempts              []Attempt `json:"attempts"`
	Best                  int64     `json:"best"`
	Average               int64     `json:"average"`
	SingleRecordTag       string    `json:"singleRecordTag"`
	AverageRecordTag      string    `json:"averageRecordTag"`
	Round                 Round     `json:"round"`
}

// Attempt value in centiseconds. Zero and negative values are sentinels (DNF, DNS, skipped).
type Attempt struct {
	Result int64 `json:"result"`
}

type Round struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Number           int              `json:"number"`
	CompetitionEvent CompetitionEvent `json:"competitionEvent"`
	Format           Format           `json:"format"`
}

type CompetitionEvent struct {
	ID    string `json:"id"`
	Event Event  `json:"event"`
}

type Event struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

type Format struct {
	ID               string `json:"id"`
	NumberOfAttempts *int   `json:"numberOfAttempts"`
	SortBy           string `json:"sortBy"`
}
