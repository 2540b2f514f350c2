package wcif

import (
	"strings"
	"time"
)

const (
	AssignmentCompetitor = "competitor"
	AssignmentJudge      = "staff-judge"
	AssignmentScrambler  = "staff-scrambler"
	AssignmentRunner     = "staff-runner"

	RegistrationAccepted = "accepted"
)

// Wcif is the public WCA Competition Interchange Format document of one competition.
type Wcif struct {
	ID       string    `json:"id" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	Persons  []Person  `json:"persons" validate:"dive"`
	Events   []Event   `json:"events" validate:"dive"`
	Schedule *Schedule `json:"schedule"`
}

type Person struct {
	Name         string        `json:"name"`
	WcaID        *string       `json:"wcaId"`
	WcaUserID    int64         `json:"wcaUserId"`
	RegistrantID int64         `json:"registrantId"`
	CountryISO2  string        `json:"countryIso2"`
	Gender       string        `json:"gender"`
	Registration *Registration `json:"registration"`
	Assignments  []Assignment  `json:"assignments" validate:"dive"`
}

// Selectable reports whether the person may be picked in a competitor selector.
func (p Person) Selectable() bool {
	return p.Registration != nil && p.Registration.Status == RegistrationAccepted
}

func (p Person) IsNewcomer() bool {
	return p.WcaID == nil || strings.TrimSpace(*p.WcaID) == ""
}

// Label renders "Name (WCAID)" or "Name (Newcomer)".
func (p Person) Label() string {
	id := "Newcomer"
	if !p.IsNewcomer() {
		id = strings.TrimSpace(*p.WcaID)
	}
	return p.Name + " (" + id + ")"
}

type Registration struct {
	EventIDs []string `json:"eventIds"`
	Status   string   `json:"status"`
}

type Assignment struct {
	ActivityID     int64  `json:"activityId" validate:"required"`
	AssignmentCode string `json:"assignmentCode" validate:"required"`
	StationNumber  *int   `json:"stationNumber,omitempty"`
}

type Event struct {
	ID     string  `json:"id" validate:"required"`
	Rounds []Round `json:"rounds"`
}

type Round struct {
	ID               string `json:"id"`
	Format           string `json:"format"`
	ScrambleSetCount int    `json:"scrambleSetCount"`
}

type Schedule struct {
	StartDate    string  `json:"startDate"`
	NumberOfDays int     `json:"numberOfDays"`
	Venues       []Venue `json:"venues" validate:"dive"`
}

type Venue struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TimezoneID string `json:"timezone"`
	Rooms      []Room `json:"rooms" validate:"dive"`
}

type Room struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Activities []Activity `json:"activities" validate:"dive"`
}

// Activity is a round-level time slot in a room.
type Activity struct {
	ID              int64           `json:"id" validate:"required"`
	Name            string          `json:"name"`
	ActivityCode    string          `json:"activityCode"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	ChildActivities []ChildActivity `json:"childActivities" validate:"dive"`
}

// ChildActivity is a single group within a round.
type ChildActivity struct {
	ID           int64        `json:"id" validate:"required"`
	Name         string       `json:"name"`
	ActivityCode string       `json:"activityCode"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime"`
	Assignments  []Assignment `json:"assignments"`
}

// FindPerson returns the person with the given registrant id.
func (w Wcif) FindPerson(registrantID int64) (Person, bool) {
	for _, p := range w.Persons {
		if p.RegistrantID == registrantID {
			return p, true
		}
	}
	return Person{}, false
}
