package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/marcus/hours/internal/api"
	"github.com/marcus/hours/internal/serverdb"
)

const adminUsage = `Usage: hours-server admin <command> [flags]

Commands:
  seed         Create the built-in schedules on an empty database
  list         List stored schedules
  cleanup      Delete old rate limit events
  rate-limits  Show recent rate limit events (--by-ip for a rollup)

Every command takes --db PATH (default: HOURS_DB_PATH or ./data/hours.db).`

var errUsage = errors.New("usage")

type adminCommand func(store *serverdb.ServerDB, fs *flag.FlagSet, args []string, w io.Writer) error

var adminCommands = map[string]adminCommand{
	"seed":        adminSeed,
	"list":        adminList,
	"cleanup":     adminCleanup,
	"rate-limits": adminRateLimits,
}

func runAdmin(args []string) {
	if err := admin(args, os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// admin dispatches an admin subcommand. The database is opened after the
// subcommand's own flags are registered so --db can be parsed with them.
func admin(args []string, w io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, adminUsage)
		return errUsage
	}
	run, ok := adminCommands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown admin command %q\n\n%s\n", args[0], adminUsage)
		return errUsage
	}

	fs := flag.NewFlagSet("admin "+args[0], flag.ContinueOnError)
	dbPath := fs.String("db", "", "path to hours.db")

	// Subcommands register their flags on a first pass with a nil store.
	if err := run(nil, fs, nil, w); err != nil {
		return err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}
	if *dbPath == "" {
		*dbPath = api.LoadConfig().ServerDBPath
	}
	store, err := serverdb.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *dbPath, err)
	}
	defer store.Close()
	return run(store, fs, fs.Args(), w)
}

func adminSeed(store *serverdb.ServerDB, fs *flag.FlagSet, _ []string, w io.Writer) error {
	if store == nil {
		return nil
	}
	n, err := api.SeedBuiltins(store)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(w, "database already has schedules; nothing seeded")
		return nil
	}
	fmt.Fprintf(w, "seeded %d built-in schedules\n", n)
	return nil
}

func adminList(store *serverdb.ServerDB, fs *flag.FlagSet, _ []string, w io.Writer) error {
	if store == nil {
		return nil
	}
	schedules, err := store.ListSchedules()
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Fprintln(w, "no schedules")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDAYS\tUPDATED")
	for _, s := range schedules {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Name, len(s.Days), s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

var cleanupDays int

func adminCleanup(store *serverdb.ServerDB, fs *flag.FlagSet, _ []string, w io.Writer) error {
	if store == nil {
		fs.IntVar(&cleanupDays, "days", 0, "retention in days (default: HOURS_RATE_LIMIT_EVENT_RETENTION or 30)")
		return nil
	}
	days := cleanupDays
	if days <= 0 {
		days = api.LoadConfig().RateLimitEventRetention
	}
	n, err := store.CleanupRateLimitEvents(days)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted %d rate limit events older than %d days\n", n, days)
	return nil
}

var (
	rateLimitsShown int
	rateLimitsByIP  bool
)

func adminRateLimits(store *serverdb.ServerDB, fs *flag.FlagSet, _ []string, w io.Writer) error {
	if store == nil {
		fs.IntVar(&rateLimitsShown, "limit", 50, "number of events to show")
		fs.BoolVar(&rateLimitsByIP, "by-ip", false, "group events by client IP")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if rateLimitsByIP {
		offenders, err := store.RateLimitOffenders()
		if err != nil {
			return err
		}
		if len(offenders) == 0 {
			fmt.Fprintln(w, "no rate limit events")
			return nil
		}
		fmt.Fprintln(tw, "IP\tREADS\tWRITES")
		for _, o := range offenders {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", o.IP, o.Reads, o.Writes)
		}
		return tw.Flush()
	}

	events, err := store.RecentRateLimitEvents(rateLimitsShown)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "no rate limit events")
		return nil
	}
	fmt.Fprintln(tw, "TIME\tIP\tCLASS")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.UTC().Format("2006-01-02 15:04:05"), e.IP, e.EndpointClass)
	}
	return tw.Flush()
}
