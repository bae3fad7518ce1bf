// Package stats implements the aggregation pipeline that turns a flat list of
// (event, date) occurrence records into per-event elapsed-day statistics:
//
//	occurrences → days-since-now → elapsed gaps → averages → sorted summary
//
// Every function is pure and total over its input domain: no I/O, no shared
// state, no errors. Absence of data is represented structurally (a missing map
// key, an empty slice), so the pipeline tolerates an empty occurrence list at
// every stage. All day counts come from whole-day calendar subtraction against
// a caller-supplied reference date, captured once per pass so results stay
// consistent within a single computation.
package stats

import (
	"sort"
	"time"

	"sincewhen/internal/models"
)

// History maps an event name to its days-since-now counts, one per occurrence,
// sorted ascending. Index 0 is always the most recent occurrence; downstream
// consumers rely on that.
type History map[string][]int

// Gaps maps an event name to the day spans between its consecutive
// occurrences. Only events with at least two occurrences are present.
type Gaps map[string][]int

// Averages maps an event name to the truncated integer mean of its gaps.
// Events absent from the gap map are absent here too.
type Averages map[string]int

// DaysBetween returns the whole-day difference to − from, ignoring any
// time-of-day or timezone component of either argument.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// DaysSinceNow groups occurrences by event name and converts each occurrence
// date to a days-ago count relative to now. Per-event slices are sorted
// ascending regardless of input order. A future-dated occurrence yields a
// negative count; that is a display anomaly for the caller, not an error here.
func DaysSinceNow(occs []models.Occurrence, now time.Time) History {
	history := make(History)
	for _, occ := range occs {
		history[occ.Event] = append(history[occ.Event], DaysBetween(occ.Date, now))
	}
	for _, days := range history {
		sort.Ints(days)
	}
	return history
}

// ElapsedGaps computes the day spans between consecutive occurrences of each
// event. With per-event counts sorted ascending, adjacent differences are
// exactly the calendar gaps between successive occurrences. Events with fewer
// than two occurrences are omitted entirely.
func ElapsedGaps(history History) Gaps {
	gaps := make(Gaps)
	for name, days := range history {
		if len(days) < 2 {
			continue
		}
		spans := make([]int, len(days)-1)
		for i := 1; i < len(days); i++ {
			spans[i-1] = days[i] - days[i-1]
		}
		gaps[name] = spans
	}
	return gaps
}

// AverageGaps computes the mean gap per event using integer division, so the
// result truncates toward zero (e.g. gaps [10, 11, 11, 11] average to 10).
func AverageGaps(gaps Gaps) Averages {
	averages := make(Averages)
	for name, spans := range gaps {
		if len(spans) == 0 {
			continue
		}
		sum := 0
		for _, span := range spans {
			sum += span
		}
		averages[name] = sum / len(spans)
	}
	return averages
}

// SortEvents builds one summary row per event: the name, the days since its
// most recent occurrence, and its average gap (zero with HasAverage unset when
// the event has a single occurrence). Rows are sorted ascending by days since,
// so the most recently triggered event comes first; ties are broken by name so
// the ordering is stable across runs.
func SortEvents(history History, averages Averages) []models.EventSummary {
	summaries := make([]models.EventSummary, 0, len(history))
	for name, days := range history {
		if len(days) == 0 {
			continue
		}
		avg, ok := averages[name]
		summaries = append(summaries, models.EventSummary{
			Name:       name,
			DaysSince:  days[0],
			Average:    avg,
			HasAverage: ok,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].DaysSince != summaries[j].DaysSince {
			return summaries[i].DaysSince < summaries[j].DaysSince
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// Summarize runs the full pipeline over a list of occurrences. Deterministic
// given (occs, now); an empty input produces an empty, non-nil result.
func Summarize(occs []models.Occurrence, now time.Time) []models.EventSummary {
	history := DaysSinceNow(occs, now)
	gaps := ElapsedGaps(history)
	averages := AverageGaps(gaps)
	return SortEvents(history, averages)
}
