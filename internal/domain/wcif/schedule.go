package wcif

import (
	"sort"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayGroup is one calendar day of the schedule.
type DayGroup struct {
	Key        string
	Date       time.Time
	Activities []Activity
}

// Flatten lists every activity of every room of every venue in document order.
func Flatten(schedule *Schedule) []Activity {
	if schedule == nil {
		return []Activity{}
	}

	out := make([]Activity, 0, countActivities(schedule))
	for _, venue := range schedule.Venues {
		for _, room := range venue.Rooms {
			out = append(out, room.Activities...)
		}
	}
	return out
}

// GroupByDay buckets activities by the calendar day of their start time in loc.
// Buckets keep first-occurrence order and activities keep input order unless
// sortWithinDay is set.
func GroupByDay(activities []Activity, loc *time.Location, sortWithinDay bool) []DayGroup {
	if loc == nil {
		loc = time.Local
	}

	out := make([]DayGroup, 0, 4)
	indexByKey := make(map[string]int, 4)
	for _, activity := range activities {
		start := activity.StartTime.In(loc)
		key := start.Format(dayKeyLayout)

		idx, ok := indexByKey[key]
		if !ok {
			idx = len(out)
			indexByKey[key] = idx
			out = append(out, DayGroup{
				Key:  key,
				Date: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
			})
		}
		out[idx].Activities = append(out[idx].Activities, activity)
	}

	if sortWithinDay {
		for i := range out {
			items := out[i].Activities
			sort.SliceStable(items, func(a, b int) bool {
				return items[a].StartTime.Before(items[b].StartTime)
			})
		}
	}

	return out
}

// DayLabel renders a day heading such as "Saturday, May 4".
func (d DayGroup) DayLabel() string {
	return d.Date.Format("Monday, January 2")
}

func countActivities(schedule *Schedule) int {
	total := 0
	for _, venue := range schedule.Venues {
		for _, room := range venue.Rooms {
			total += len(room.Activities)
		}
	}
	return total
}
