package stats

import (
	"reflect"
	"testing"
	"time"

	"sincewhen/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2023, 4, 1), date(2023, 4, 1), 0},
		{"ten days", date(2023, 4, 1), date(2023, 4, 11), 10},
		{"across month boundary", date(2023, 3, 25), date(2023, 4, 5), 11},
		{"across year boundary", date(2022, 12, 30), date(2023, 1, 2), 3},
		{"future date is negative", date(2023, 4, 11), date(2023, 4, 1), -10},
		{"time of day ignored", time.Date(2023, 4, 1, 23, 59, 0, 0, time.UTC), time.Date(2023, 4, 2, 0, 1, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysSinceNowGroupsAndSorts(t *testing.T) {
	now := date(2023, 4, 22)
	occs := []models.Occurrence{
		{Event: "oil change", Date: date(2023, 4, 1)},
		{Event: "oil change", Date: date(2023, 4, 11)},
		{Event: "haircut", Date: date(2023, 4, 20)},
		{Event: "oil change", Date: date(2023, 4, 6)},
		{Event: "oil change", Date: date(2023, 4, 12)},
	}

	history := DaysSinceNow(occs, now)

	if len(history) != 2 {
		t.Fatalf("expected 2 events, got %d", len(history))
	}
	if got, want := history["oil change"], []int{10, 11, 16, 21}; !reflect.DeepEqual(got, want) {
		t.Errorf("oil change days = %v, want %v", got, want)
	}
	if got, want := history["haircut"], []int{2}; !reflect.DeepEqual(got, want) {
		t.Errorf("haircut days = %v, want %v", got, want)
	}
}

func TestDaysSinceNowOrderInvariant(t *testing.T) {
	now := date(2023, 4, 22)
	dates := []time.Time{
		date(2023, 4, 12),
		date(2023, 4, 1),
		date(2023, 4, 11),
		date(2023, 4, 6),
	}

	// Every rotation of the input must yield the same ascending slice.
	for shift := range dates {
		var occs []models.Occurrence
		for i := range dates {
			occs = append(occs, models.Occurrence{Event: "e", Date: dates[(i+shift)%len(dates)]})
		}
		history := DaysSinceNow(occs, now)
		if got, want := history["e"], []int{10, 11, 16, 21}; !reflect.DeepEqual(got, want) {
			t.Errorf("shift %d: days = %v, want %v", shift, got, want)
		}
	}
}

func TestDaysSinceNowFutureOccurrence(t *testing.T) {
	now := date(2023, 4, 22)
	history := DaysSinceNow([]models.Occurrence{
		{Event: "e", Date: date(2023, 4, 25)},
		{Event: "e", Date: date(2023, 4, 20)},
	}, now)

	// Negative counts sort before positive ones, keeping index 0 most recent.
	if got, want := history["e"], []int{-3, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("days = %v, want %v", got, want)
	}
}

func TestElapsedGaps(t *testing.T) {
	history := History{
		"event_0": {1, 11, 22, 33, 44},
		"event_1": {1, 6, 8, 16, 20},
		"single":  {7},
	}

	gaps := ElapsedGaps(history)

	if got, want := gaps["event_0"], []int{10, 11, 11, 11}; !reflect.DeepEqual(got, want) {
		t.Errorf("event_0 gaps = %v, want %v", got, want)
	}
	if got, want := gaps["event_1"], []int{5, 2, 8, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("event_1 gaps = %v, want %v", got, want)
	}
	if _, ok := gaps["single"]; ok {
		t.Error("event with a single occurrence must be omitted from gaps")
	}
}

func TestElapsedGapsLength(t *testing.T) {
	history := History{"e": {1, 3, 9, 10, 14, 30}}
	gaps := ElapsedGaps(history)
	if len(gaps["e"]) != len(history["e"])-1 {
		t.Errorf("gap count = %d, want %d", len(gaps["e"]), len(history["e"])-1)
	}
}

func TestAverageGaps(t *testing.T) {
	gaps := Gaps{
		"foo":      {10, 11, 11, 11}, // sum 43, truncates to 10
		"bar":      {5, 5, 5, 5},
		"same day": {0, 0},
	}

	averages := AverageGaps(gaps)

	if got := averages["foo"]; got != 10 {
		t.Errorf("foo average = %d, want 10 (integer truncation)", got)
	}
	if got := averages["bar"]; got != 5 {
		t.Errorf("bar average = %d, want 5", got)
	}
	if got, ok := averages["same day"]; !ok || got != 0 {
		t.Errorf("same day average = %d (present=%v), want 0 present", got, ok)
	}
	if _, ok := averages["missing"]; ok {
		t.Error("averages must not invent events")
	}
}

func TestSortEvents(t *testing.T) {
	history := History{
		"foo": {4, 11, 22, 33, 44},
		"bar": {1, 6, 11, 16, 21},
	}
	averages := Averages{"foo": 22, "bar": 11}

	got := SortEvents(history, averages)

	want := []models.EventSummary{
		{Name: "bar", DaysSince: 1, Average: 11, HasAverage: true},
		{Name: "foo", DaysSince: 4, Average: 22, HasAverage: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortEvents() = %+v, want %+v", got, want)
	}
}

func TestSortEventsTieBreakByName(t *testing.T) {
	history := History{
		"zebra": {3},
		"apple": {3},
		"mango": {3},
	}

	got := SortEvents(history, Averages{})

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	want := []string{"apple", "mango", "zebra"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("tie-break order = %v, want %v", names, want)
	}
}

func TestSortEventsSingleOccurrence(t *testing.T) {
	history := History{"once": {9}}

	got := SortEvents(history, Averages{})

	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].HasAverage || got[0].Average != 0 {
		t.Errorf("single-occurrence event must report average 0 without data: %+v", got[0])
	}
	if got[0].AverageLabel() != "---" {
		t.Errorf("single-occurrence average label = %q, want %q", got[0].AverageLabel(), "---")
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	got := Summarize(nil, date(2023, 4, 22))
	if got == nil {
		t.Fatal("Summarize(nil) must return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestSummarizeEndToEnd(t *testing.T) {
	now := date(2023, 4, 22)
	occs := []models.Occurrence{
		{Event: "A", Date: date(2023, 4, 1)},
		{Event: "A", Date: date(2023, 4, 11)},
		{Event: "A", Date: date(2023, 4, 6)},
		{Event: "A", Date: date(2023, 4, 12)},
	}

	// days since: [21, 11, 16, 10] → sorted [10, 11, 16, 21]
	// gaps: [1, 5, 5] → sum 11 → average 11/3 = 3
	got := Summarize(occs, now)

	want := []models.EventSummary{{Name: "A", DaysSince: 10, Average: 3, HasAverage: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	now := date(2023, 4, 22)
	occs := []models.Occurrence{
		{Event: "A", Date: date(2023, 4, 12)},
		{Event: "A", Date: date(2023, 4, 1)},
		{Event: "B", Date: date(2023, 4, 20)},
	}

	first := Summarize(occs, now)
	second := Summarize(occs, now)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("pipeline is not deterministic: %+v vs %+v", first, second)
	}
}
