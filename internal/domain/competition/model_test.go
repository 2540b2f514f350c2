package competition

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatDateRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		start, end time.Time
		want       string
	}{
		{name: "single day", start: day(2024, 1, 20), end: day(2024, 1, 20), want: "Jan 20, 2024"},
		{name: "same month", start: day(2024, 1, 20), end: day(2024, 1, 22), want: "Jan 20-22, 2024"},
		{name: "same year", start: day(2024, 1, 30), end: day(2024, 2, 2), want: "Jan 30 - Feb 2, 2024"},
		{name: "across years", start: day(2023, 12, 30), end: day(2024, 1, 1), want: "Dec 30, 2023 - Jan 1, 2024"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDateRange(tc.start, tc.end); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestCompetitionValidate(t *testing.T) {
	t.Parallel()

	valid := Competition{ID: "Euro2024", Name: "WCA European Championship 2024", StartDate: day(2024, 7, 25), EndDate: day(2024, 7, 28)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid competition, got %v", err)
	}

	inverted := valid
	inverted.StartDate, inverted.EndDate = valid.EndDate, valid.StartDate
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidDates) {
		t.Fatalf("expected ErrInvalidDates, got %v", err)
	}

	if err := (Competition{Name: "no id"}).Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
