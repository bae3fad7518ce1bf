package models

import "fmt"

// EventSummary is one display row of the sorted event overview: the event name,
// how many days ago it last occurred, and the average number of days between
// its occurrences. HasAverage distinguishes a genuine zero-day average (two
// occurrences on the same day) from "not enough data yet".
type EventSummary struct {
	Name       string `json:"name"`
	DaysSince  int    `json:"days_since"`
	Average    int    `json:"average"`
	HasAverage bool   `json:"has_average"`
}

// DaysLabel renders the elapsed column as "N day(s) ago".
func (s EventSummary) DaysLabel() string {
	return fmt.Sprintf("%d %s ago", s.DaysSince, pluralDay(s.DaysSince))
}

// AverageLabel renders the average column as "N day(s)", or the "---"
// placeholder when the event does not have two occurrences yet.
func (s EventSummary) AverageLabel() string {
	if !s.HasAverage {
		return "---"
	}
	return fmt.Sprintf("%d %s", s.Average, pluralDay(s.Average))
}

func pluralDay(n int) string {
	if n == 1 || n == -1 {
		return "day"
	}
	return "days"
}
