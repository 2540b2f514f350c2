package competition

import (
	"errors"
	"time"
)

// DateLayout is the civil date format used by the WCA API.
const DateLayout = "2006-01-02"

var ErrInvalidDates = errors.New("competition starts after it ends")

// Competition is a listing entry. Dates are civil dates at midnight UTC.
type Competition struct {
	ID          string
	Name        string
	City        string
	CountryISO2 string
	StartDate   time.Time
	EndDate     time.Time
	URL         string
}

func (c Competition) Validate() error {
	if c.ID == "" || c.Name == "" {
		return errors.New("competition id and name are required")
	}
	if c.StartDate.After(c.EndDate) {
		return ErrInvalidDates
	}
	return nil
}

// DateRange renders the competition's dates for display.
func (c Competition) DateRange() string {
	return FormatDateRange(c.StartDate, c.EndDate)
}

// FormatDateRange collapses the shared parts of two civil dates:
// "Jan 20, 2024", "Jan 20-22, 2024", "Jan 30 - Feb 2, 2024" or
// "Dec 30, 2023 - Jan 1, 2024".
func FormatDateRange(start, end time.Time) string {
	switch {
	case start.Year() != end.Year():
		return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
	case start.Month() != end.Month():
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	case start.Day() != end.Day():
		return start.Format("Jan 2") + "-" + end.Format("2, 2006")
	default:
		return start.Format("Jan 2, 2006")
	}
}
