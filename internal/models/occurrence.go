// Package models defines the core domain entities for the sincewhen application.
// These models represent tracked events, their recorded occurrences, and the
// per-event summaries produced by the stats pipeline.
//
// Terminology:
//   - Event: a recurring thing worth tracking ("oil change", "haircut"). Events
//     are identified by a unique name.
//   - Occurrence: one recorded instance of an event on a specific calendar date.
//     An event has one or more occurrences; this is the unit the store persists.
package models

import (
	"errors"
	"time"
)

// Occurrence is one recorded instance of a tracked event. Date carries only the
// calendar day (midnight UTC by construction in storage); no time-of-day
// component participates in any day arithmetic.
type Occurrence struct {
	Event string    `json:"event"`
	Date  time.Time `json:"date"`
}

// Validate checks that all occurrence fields are valid.
func (o *Occurrence) Validate() error {
	if o.Event == "" {
		return errors.New("occurrence event name must not be empty")
	}
	if o.Date.IsZero() {
		return errors.New("occurrence date must not be zero")
	}
	return nil
}
