package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// dateRange is an inclusive range of trading dates.
type dateRange struct {
	From time.Time
	To   time.Time
}

// runFlags are shared by every estimating command.
type runFlags struct {
	from   string
	to     string
	runID  string
	format string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first trading day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last trading day (YYYY-MM-DD), defaults to --from")
	cmd.Flags().StringVar(&f.runID, "run-id", "", "uuid stamped on written rows (default: random)")
	cmd.Flags().StringVar(&f.format, "format", "table", "output format: table, csv, json")
	_ = cmd.MarkFlagRequired("from")
}

func (f *runFlags) dates() (dateRange, error) {
	return parseDateRange(f.from, f.to)
}

func parseDateRange(from, to string) (dateRange, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return dateRange{}, fmt.Errorf("invalid --from %q: %w", from, err)
	}
	end := start
	if to != "" {
		end, err = time.Parse(time.DateOnly, to)
		if err != nil {
			return dateRange{}, fmt.Errorf("invalid --to %q: %w", to, err)
		}
	}
	if end.Before(start) {
		return dateRange{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return dateRange{From: start, To: end}, nil
}

func validFormat(format string) error {
	switch format {
	case "table", "csv", "json":
		return nil
	}
	return fmt.Errorf("invalid --format %q", format)
}
