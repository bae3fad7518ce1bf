// Package storage provides the durable event store backing the application:
// a local SQLite database holding tracked events and their occurrence dates.
//
// The store is opened once and injected into callers; it owns schema creation
// and all SQL. Dates are persisted as "YYYY-MM-DD" text and surfaced as
// calendar dates (midnight UTC). A stored row whose date no longer parses is
// dropped and logged rather than surfaced — the aggregation pipeline only ever
// sees well-formed occurrences.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sincewhen/internal/logger"
	"sincewhen/internal/models"
)

// DateLayout is the canonical on-disk date format.
const DateLayout = "2006-01-02"

var (
	// ErrDuplicateEvent is returned when inserting an event whose name is already tracked.
	ErrDuplicateEvent = errors.New("event already exists")
	// ErrUnknownEvent is returned when referencing an event that is not tracked.
	ErrUnknownEvent = errors.New("event not found")
)

// Store wraps the SQLite database holding events and occurrences.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and ensures
// the schema exists. The parent directory is created when missing so a fresh
// install works without setup.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS occurrences (
		id       TEXT PRIMARY KEY,
		event_id INTEGER NOT NULL,
		date     TEXT NOT NULL,
		FOREIGN KEY(event_id) REFERENCES events(id)
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// eventID resolves an event name to its row ID, returning ErrUnknownEvent when
// the name is not tracked.
func (s *Store) eventID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM events WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up event %q: %w", name, err)
	}
	return id, nil
}

// InsertEvent registers a new event name. Returns ErrDuplicateEvent when the
// name is already tracked.
func (s *Store) InsertEvent(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("event name must not be empty")
	}
	if _, err := s.eventID(ctx, name); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, name)
	} else if !errors.Is(err, ErrUnknownEvent) {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO events (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to insert event %q: %w", name, err)
	}
	logger.Info("event added", "name", name)
	return nil
}

// InsertOccurrence records an occurrence of a tracked event on the given date.
// Returns ErrUnknownEvent when no event with that name exists.
func (s *Store) InsertOccurrence(ctx context.Context, name string, date time.Time) error {
	id, err := s.eventID(ctx, name)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO occurrences (id, event_id, date) VALUES (?, ?, ?)`,
		uuid.New().String(), id, date.Format(DateLayout))
	if err != nil {
		return fmt.Errorf("failed to insert occurrence for %q: %w", name, err)
	}
	logger.Info("occurrence recorded", "name", name, "date", date.Format(DateLayout))
	return nil
}

// DeleteEvent removes an event and all of its occurrences. Returns
// ErrUnknownEvent when no event with that name exists.
func (s *Store) DeleteEvent(ctx context.Context, name string) error {
	id, err := s.eventID(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM occurrences WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete occurrences of %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of %q: %w", name, err)
	}
	logger.Info("event deleted", "name", name)
	return nil
}

// ListOccurrences returns every recorded occurrence joined with its event
// name, most recent first. Rows with unparseable dates are dropped and logged;
// they never reach the aggregation pipeline.
func (s *Store) ListOccurrences(ctx context.Context) ([]models.Occurrence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.name, o.date
		FROM events e
		JOIN occurrences o ON e.id = o.event_id
		ORDER BY o.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query occurrences: %w", err)
	}
	defer rows.Close()

	var occs []models.Occurrence
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence row: %w", err)
		}
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			logger.Warn("dropping occurrence with malformed date", "name", name, "date", raw)
			continue
		}
		occs = append(occs, models.Occurrence{Event: name, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read occurrence rows: %w", err)
	}
	return occs, nil
}

// OccurrencesByMonth returns, for the given month, a map from day-of-month to
// the names of events that occurred on that day. Used to badge calendar cells.
func (s *Store) OccurrencesByMonth(ctx context.Context, year int, month time.Month) (map[int][]string, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.name, o.date
		FROM events e
		JOIN occurrences o ON e.id = o.event_id
		WHERE o.date >= ? AND o.date < ?`,
		first.Format(DateLayout), next.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query occurrences for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()

	byDay := make(map[int][]string)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence row: %w", err)
		}
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			logger.Warn("dropping occurrence with malformed date", "name", name, "date", raw)
			continue
		}
		byDay[date.Day()] = append(byDay[date.Day()], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read occurrence rows: %w", err)
	}
	return byDay, nil
}

// Seed inserts a small sample data set for trying the application out.
// Events that already exist are left untouched.
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	samples := []struct {
		name    string
		daysAgo []int
	}{
		{"Oil change", []int{21, 16, 11, 10}},
		{"Haircut", []int{30}},
	}
	for _, sample := range samples {
		if err := s.InsertEvent(ctx, sample.name); err != nil {
			if errors.Is(err, ErrDuplicateEvent) {
				continue
			}
			return err
		}
		for _, days := range sample.daysAgo {
			if err := s.InsertOccurrence(ctx, sample.name, now.AddDate(0, 0, -days)); err != nil {
				return err
			}
		}
	}
	return nil
}
