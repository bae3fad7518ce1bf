// Command sincewhen tracks recurring personal events and shows how many days
// have passed since each one last happened, plus the average days between
// occurrences.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"sincewhen/internal/calendar"
	"sincewhen/internal/config"
	"sincewhen/internal/export"
	"sincewhen/internal/logger"
	"sincewhen/internal/models"
	"sincewhen/internal/stats"
	"sincewhen/internal/storage"
)

var configPath = flag.String("config", "", "path to configuration file (optional)")

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sincewhen [flags] <command> [arguments]

Commands:
  list                         show tracked events sorted by days since last occurrence
  add <name> [-date DATE]      start tracking an event, recording its first occurrence
  record <name> [-date DATE]   record another occurrence of a tracked event
  delete <name>                stop tracking an event and remove its history
  calendar [-month YYYY-MM]    show a month grid with occurrence markers
  export [-out FILE]           write the occurrence history as an iCalendar file
  seed                         insert sample data for trying things out

Dates use the YYYY-MM-DD format and default to today.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	switch cmd := args[0]; cmd {
	case "list":
		err = runList(ctx, cfg)
	case "add":
		err = runAdd(ctx, cfg, args[1:])
	case "record":
		err = runRecord(ctx, cfg, args[1:])
	case "delete":
		err = runDelete(ctx, cfg, args[1:])
	case "calendar":
		err = runCalendar(ctx, cfg, args[1:])
	case "export":
		err = runExport(ctx, cfg, args[1:])
	case "seed":
		err = runSeed(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the configured database, creating it on first use.
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}
	return store, nil
}

// parseDate parses a -date flag value, defaulting to today when empty.
// Invalid input is a recoverable error reported to the user, never a crash.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(storage.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return date, nil
}

// runList renders the sorted event overview. A storage failure degrades to an
// empty listing rather than aborting the display.
func runList(ctx context.Context, cfg *config.Config) error {
	summaries := stats.Summarize(loadOccurrences(ctx, cfg), time.Now())

	if len(summaries) == 0 {
		fmt.Println("No events to display. Try: sincewhen add <name>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 3, ' ', 0)
	fmt.Fprintln(w, "EVENT\tDAYS SINCE\tAVERAGE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.DaysLabel(), s.AverageLabel())
	}
	return w.Flush()
}

// loadOccurrences fetches all occurrences, treating any storage failure as an
// empty history: the failure is logged and the UI shows an empty list.
func loadOccurrences(ctx context.Context, cfg *config.Config) []models.Occurrence {
	store, err := openStore(cfg)
	if err != nil {
		logger.Error("event store unavailable", "err", err)
		return nil
	}
	defer store.Close()

	occs, err := store.ListOccurrences(ctx)
	if err != nil {
		logger.Error("failed to list occurrences", "err", err)
		return nil
	}
	return occs
}

func runAdd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dateFlag := fs.String("date", "", "occurrence date (YYYY-MM-DD), defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.TrimSpace(fs.Arg(0))
	if name == "" {
		return errors.New("usage: sincewhen add <name> [-date YYYY-MM-DD]")
	}
	date, err := parseDate(*dateFlag)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InsertEvent(ctx, name); err != nil {
		if errors.Is(err, storage.ErrDuplicateEvent) {
			return fmt.Errorf("%q is already tracked; use: sincewhen record %q", name, name)
		}
		return err
	}
	if err := store.InsertOccurrence(ctx, name, date); err != nil {
		return err
	}
	fmt.Printf("Tracking %q since %s.\n", name, date.Format(storage.DateLayout))
	return nil
}

func runRecord(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	dateFlag := fs.String("date", "", "occurrence date (YYYY-MM-DD), defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.TrimSpace(fs.Arg(0))
	if name == "" {
		return errors.New("usage: sincewhen record <name> [-date YYYY-MM-DD]")
	}
	date, err := parseDate(*dateFlag)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InsertOccurrence(ctx, name, date); err != nil {
		if errors.Is(err, storage.ErrUnknownEvent) {
			return fmt.Errorf("%q is not tracked yet; use: sincewhen add %q", name, name)
		}
		return err
	}
	fmt.Printf("Recorded %q on %s.\n", name, date.Format(storage.DateLayout))
	return nil
}

func runDelete(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: sincewhen delete <name>")
	}
	name := strings.TrimSpace(args[0])

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteEvent(ctx, name); err != nil {
		return err
	}
	fmt.Printf("Deleted %q and its history.\n", name)
	return nil
}

func runCalendar(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	monthFlag := fs.String("month", "", "month to display (YYYY-MM), defaults to the current month")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month := calendar.Current(time.Now())
	if *monthFlag != "" {
		var err error
		if month, err = calendar.Parse(*monthFlag); err != nil {
			return err
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	byDay, err := store.OccurrencesByMonth(ctx, month.Year, month.Month)
	if err != nil {
		return err
	}

	printMonth(month, byDay)
	return nil
}

// printMonth renders the 6×7 grid, marking days that have occurrences with a
// star and listing the names underneath.
func printMonth(month calendar.Month, byDay map[int][]string) {
	fmt.Printf("%19s\n", month)
	fmt.Println(" Su  Mo  Tu  We  Th  Fr  Sa")
	for _, row := range month.Grid() {
		line := make([]string, 0, calendar.Cols)
		empty := true
		for _, day := range row {
			switch {
			case day == 0:
				line = append(line, "   ")
			case len(byDay[day]) > 0:
				line = append(line, fmt.Sprintf("%2d*", day))
				empty = false
			default:
				line = append(line, fmt.Sprintf("%2d ", day))
				empty = false
			}
		}
		if !empty {
			fmt.Println(" " + strings.Join(line, " "))
		}
	}

	if len(byDay) == 0 {
		return
	}
	fmt.Println()
	for day := 1; day <= month.Days(); day++ {
		if names := byDay[day]; len(names) > 0 {
			fmt.Printf("  %2d: %s\n", day, strings.Join(names, ", "))
		}
	}
}

func runExport(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outFlag := fs.String("out", "sincewhen.ics", "output file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	occs, err := store.ListOccurrences(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *outFlag, err)
	}
	defer f.Close()

	if err := export.WriteICS(f, occs); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	fmt.Printf("Exported %d occurrences to %s.\n", len(occs), *outFlag)
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Seed(ctx, time.Now()); err != nil {
		return err
	}
	fmt.Println("Sample events inserted.")
	return nil
}
