// Package calendar models the month grid used by the date-picker view: a
// fixed 6×7 layout of day numbers with month navigation. Pure date
// arithmetic; rendering belongs to the caller.
package calendar

import (
	"fmt"
	"time"
)

// Rows and Cols define the fixed grid dimensions: six weeks of seven days
// covers every possible month layout.
const (
	Rows = 6
	Cols = 7
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// Current returns the month containing the given time.
func Current(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

// Parse parses a "YYYY-MM" month reference.
func Parse(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Next returns the following month.
func (m Month) Next() Month {
	t := m.first().AddDate(0, 1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	t := m.first().AddDate(0, -1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of days in the month, computed as the distance to
// the first day of the following month.
func (m Month) Days() int {
	return int(m.Next().first().Sub(m.first()).Hours() / 24)
}

// Grid lays the month out as 6 rows × 7 columns, weeks starting on Sunday.
// Cells outside the month hold zero.
func (m Month) Grid() [Rows][Cols]int {
	var grid [Rows][Cols]int
	offset := int(m.first().Weekday()) // Sunday = 0
	days := m.Days()
	for day := 1; day <= days; day++ {
		cell := offset + day - 1
		grid[cell/Cols][cell%Cols] = day
	}
	return grid
}

// String renders the month header, e.g. "April 2023".
func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}
