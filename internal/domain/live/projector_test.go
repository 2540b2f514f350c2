package live

import "testing"

func intPtr(v int) *int { return &v }

func result(id string, event Event, roundNumber int, attempts ...int64) Result {
	r := Result{
		ID: id,
		Round: Round{
			ID:               id,
			Number:           roundNumber,
			CompetitionEvent: CompetitionEvent{ID: event.ID, Event: event},
		},
	}
	for _, a := range attempts {
		r.Attempts = append(r.Attempts, Attempt{Result: a})
	}
	return r
}

func TestProject_OrdersEventsByRankAndRoundsByNumber(t *testing.T) {
	t.Parallel()

	cube := Event{ID: "333", Name: "3x3x3 Cube", Rank: 10}
	two := Event{ID: "222", Name: "2x2x2 Cube", Rank: 20}
	oneHanded := Event{ID: "333oh", Name: "3x3x3 One-Handed", Rank: 10}

	got := Project([]Result{
		result("a", two, 2),
		result("b", cube, 3),
		result("c", two, 1),
		result("d", cube, 1),
		result("e", oneHanded, 1),
		result("f", cube, 2),
	})

	if len(got) != 3 {
		t.Fatalf("expected three events, got=%d", len(got))
	}
	// Equal rank keeps first appearance.
	if got[0].Event.ID != "333" || got[1].Event.ID != "333oh" || got[2].Event.ID != "222" {
		t.Fatalf("unexpected event order: %s %s %s", got[0].Event.ID, got[1].Event.ID, got[2].Event.ID)
	}

	rounds := got[0].Rounds
	if len(rounds) != 3 || rounds[0].Result.ID != "d" || rounds[1].Result.ID != "f" || rounds[2].Result.ID != "b" {
		t.Fatalf("unexpected round order for 333: %+v", rounds)
	}
	if got[2].Rounds[0].Result.ID != "c" || got[2].Rounds[1].Result.ID != "a" {
		t.Fatalf("unexpected round order for 222")
	}
}

func TestProject_ColumnFloorAndPadding(t *testing.T) {
	t.Parallel()

	bld := Event{ID: "333bf", Rank: 50}
	short := result("bo3", bld, 1, 3000, -1, 2800)
	short.Round.Format.NumberOfAttempts = intPtr(3)

	got := Project([]Result{short})
	if got[0].ColumnCount != MinColumns {
		t.Fatalf("unexpected column count: got=%d want=%d", got[0].ColumnCount, MinColumns)
	}
	attempts := got[0].Rounds[0].Attempts
	want := []int64{3000, -1, 2800, 0, 0}
	if len(attempts) != len(want) {
		t.Fatalf("unexpected attempt cells: got=%d want=%d", len(attempts), len(want))
	}
	for i := range want {
		if attempts[i] != want[i] {
			t.Fatalf("attempt %d: got=%d want=%d", i, attempts[i], want[i])
		}
	}
}

func TestProject_ColumnCountSharedAcrossRounds(t *testing.T) {
	t.Parallel()

	mbf := Event{ID: "custom", Rank: 1}
	wide := result("r1", mbf, 1, 1, 2, 3, 4, 5, 6, 7)
	narrow := result("r2", mbf, 2, 1, 2)
	narrow.Round.Format.NumberOfAttempts = intPtr(2)

	got := Project([]Result{narrow, wide})
	if got[0].ColumnCount != 7 {
		t.Fatalf("expected widest round to win, got=%d", got[0].ColumnCount)
	}
	for _, row := range got[0].Rounds {
		if len(row.Attempts) != 7 {
			t.Fatalf("row %s: got=%d cells want=7", row.Result.ID, len(row.Attempts))
		}
	}
}

func TestProject_RecordTagPrecedence(t *testing.T) {
	t.Parallel()

	cube := Event{ID: "333", Rank: 1}
	both := result("both", cube, 1)
	both.SingleRecordTag = "NR"
	both.AverageRecordTag = "WR"
	single := result("single", cube, 2)
	single.SingleRecordTag = "PR"

	got := Project([]Result{both, single})
	rows := got[0].Rounds
	if rows[0].AverageTag != "WR" || rows[0].BestTag != "" {
		t.Fatalf("expected average tag only, got avg=%q best=%q", rows[0].AverageTag, rows[0].BestTag)
	}
	if rows[1].AverageTag != "" || rows[1].BestTag != "PR" {
		t.Fatalf("expected best tag, got avg=%q best=%q", rows[1].AverageTag, rows[1].BestTag)
	}
}

func TestProject_Empty(t *testing.T) {
	t.Parallel()

	if got := Project(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}
