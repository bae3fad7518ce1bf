// Package export emits the recorded occurrence history as an iCalendar feed,
// one all-day VEVENT per occurrence, so the data can be viewed alongside a
// normal calendar.
package export

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"sincewhen/internal/models"
)

// WriteICS serializes the given occurrences to w as an iCalendar document.
// Each occurrence becomes an all-day event spanning its calendar date, with
// the event name as summary. The caller owns w.
func WriteICS(w io.Writer, occs []models.Occurrence) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//sincewhen//event history//EN")

	now := time.Now().UTC()
	for _, occ := range occs {
		ev := cal.AddEvent(uuid.New().String())
		ev.SetDtStampTime(now)
		ev.SetSummary(occ.Event)
		ev.SetAllDayStartAt(occ.Date)
		ev.SetAllDayEndAt(occ.Date.AddDate(0, 0, 1))
	}

	return cal.SerializeTo(w)
}
