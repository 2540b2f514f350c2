package live

import "sort"

// MinColumns is the lowest number of attempt columns an event table renders.
const MinColumns = 5

// EventGroup is one event table of a competitor's results.
type EventGroup struct {
	Event       Event
	ColumnCount int
	Rounds      []RoundRow
}

// RoundRow is one result line, with attempts padded to the event's column count.
type RoundRow struct {
	Result     Result
	Attempts   []int64
	AverageTag string
	BestTag    string
}

// Project groups results by event and lays them out as tables.
//
// Events are ordered by rank and rounds by round number; both sorts are
// stable so ties keep their first appearance. Every row of an event gets the
// same number of attempt cells, at least MinColumns, zero padded. A best
// record tag is only shown when the row has no average record tag.
func Project(results []Result) []EventGroup {
	out := []EventGroup{}
	if len(results) == 0 {
		return out
	}

	indexByEvent := make(map[string]int)
	buckets := make([][]Result, 0)
	for _, result := range results {
		event := result.Round.CompetitionEvent.Event
		idx, ok := indexByEvent[event.ID]
		if !ok {
			idx = len(out)
			indexByEvent[event.ID] = idx
			out = append(out, EventGroup{Event: event})
			buckets = append(buckets, nil)
		}
		buckets[idx] = append(buckets[idx], result)
	}

	for i := range out {
		rounds := buckets[i]
		sort.SliceStable(rounds, func(a, b int) bool {
			return rounds[a].Round.Number < rounds[b].Round.Number
		})

		columns := columnCount(rounds)
		rows := make([]RoundRow, 0, len(rounds))
		for _, result := range rounds {
			rows = append(rows, projectRow(result, columns))
		}
		out[i].ColumnCount = columns
		out[i].Rounds = rows
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Event.Rank < out[b].Event.Rank
	})
	return out
}

func columnCount(results []Result) int {
	columns := MinColumns
	for _, result := range results {
		n := len(result.Attempts)
		if result.Round.Format.NumberOfAttempts != nil {
			n = *result.Round.Format.NumberOfAttempts
		}
		if n > columns {
			columns = n
		}
	}
	return columns
}

func projectRow(result Result, columns int) RoundRow {
	attempts := make([]int64, columns)
	for i, attempt := range result.Attempts {
		if i >= columns {
			break
		}
		attempts[i] = attempt.Result
	}

	row := RoundRow{
		Result:     result,
		Attempts:   attempts,
		AverageTag: result.AverageRecordTag,
	}
	if row.AverageTag == "" {
		row.BestTag = result.SingleRecordTag
	}
	return row
}
