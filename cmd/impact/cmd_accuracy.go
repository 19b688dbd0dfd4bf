package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/impact-response/internal/model"
)

var accuracyFlags runFlags

var accuracyCmd = &cobra.Command{
	Use:   "accuracy TICKER",
	Short: "Share of trades whose tick-rule sign matches the side of the order hit (ITCH only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccuracy,
}

func init() {
	accuracyFlags.register(accuracyCmd)
	rootCmd.AddCommand(accuracyCmd)
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	ticker := args[0]
	r, err := accuracyFlags.dates()
	if err != nil {
		return err
	}

	ctx, e, cleanup, err := setup(cmd.Context(), accuracyFlags.runID)
	if err != nil {
		return err
	}
	defer cleanup()

	days, err := e.days(ctx, ticker, r)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tTRADES\tACCURACY")

	var matched float64
	var total int
	for _, day := range days {
		acc, n, err := e.store.SignAccuracy(ctx, ticker, day)
		if errors.Is(err, model.ErrNoData) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("failed to score day",
				"ticker", ticker,
				"day", day.Format(time.DateOnly),
				"error", err,
			)
			continue
		}
		matched += acc * float64(n)
		total += n
		fmt.Fprintf(tw, "%s\t%d\t%.4f\n", day.Format(time.DateOnly), n, acc)
	}
	if total > 0 {
		fmt.Fprintf(tw, "ALL\t%d\t%.4f\n", total, matched/float64(total))
	}
	return tw.Flush()
}
