package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickgao/impact-response/internal/response"
)

var selfFlags, crossFlags, shiftFlags runFlags

var selfCmd = &cobra.Command{
	Use:   "self TICKER [TICKER...]",
	Short: "Self response of each stock to its own trades",
	Long: `Estimate R(τ) = <(p(t+τ) - p(t)) / p(t) · ε(t)> for τ = 1..tau_max, where
p is the resampled quote price and ε the aggregated trade sign of the same
stock. Daily sums are pooled before dividing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelf,
}

var crossCmd = &cobra.Command{
	Use:   "cross SOURCE DRIVING",
	Short: "Cross response of SOURCE's price to DRIVING's trades",
	Args:  cobra.ExactArgs(2),
	RunE:  runCross,
}

var shiftCmd = &cobra.Command{
	Use:   "shift SOURCE [DRIVING]",
	Short: "Response at a fixed lag while shifting the series against each other",
	Long: `Compute the response at lag shift_tau for every shift in [-10τ, 10τ).
A positive shift pairs prices with later signs. Without DRIVING the self
response of SOURCE is scanned.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShift,
}

func init() {
	selfFlags.register(selfCmd)
	crossFlags.register(crossCmd)
	shiftFlags.register(shiftCmd)
	rootCmd.AddCommand(selfCmd, crossCmd, shiftCmd)
}

func runSelf(cmd *cobra.Command, args []string) error {
	r, err := selfFlags.dates()
	if err != nil {
		return err
	}
	if err := validFormat(selfFlags.format); err != nil {
		return err
	}

	ctx, e, cleanup, err := setup(cmd.Context(), selfFlags.runID)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, ticker := range args {
		days, err := e.days(ctx, ticker, r)
		if err != nil {
			return err
		}
		report, err := e.driver.Self(ctx, ticker, days)
		if err != nil {
			return fmt.Errorf("self %s: %w", ticker, err)
		}
		if err := printReport(os.Stdout, report, selfFlags.format); err != nil {
			return err
		}
	}
	return nil
}

func runCross(cmd *cobra.Command, args []string) error {
	pair := response.Pair{Source: args[0], Driving: args[1]}
	if pair.Kind() != response.Cross {
		return fmt.Errorf("cross %s: source and driving stock must differ", pair)
	}

	r, err := crossFlags.dates()
	if err != nil {
		return err
	}
	if err := validFormat(crossFlags.format); err != nil {
		return err
	}

	ctx, e, cleanup, err := setup(cmd.Context(), crossFlags.runID)
	if err != nil {
		return err
	}
	defer cleanup()

	days, err := e.days(ctx, pair.Source, r)
	if err != nil {
		return err
	}
	report, err := e.driver.Cross(ctx, pair, days)
	if err != nil {
		return fmt.Errorf("cross %s: %w", pair, err)
	}
	return printReport(os.Stdout, report, crossFlags.format)
}

func runShift(cmd *cobra.Command, args []string) error {
	pair := response.SelfPair(args[0])
	if len(args) == 2 {
		pair.Driving = args[1]
	}

	r, err := shiftFlags.dates()
	if err != nil {
		return err
	}
	if err := validFormat(shiftFlags.format); err != nil {
		return err
	}

	ctx, e, cleanup, err := setup(cmd.Context(), shiftFlags.runID)
	if err != nil {
		return err
	}
	defer cleanup()

	days, err := e.days(ctx, pair.Source, r)
	if err != nil {
		return err
	}
	report, err := e.driver.Shift(ctx, pair, days)
	if err != nil {
		return fmt.Errorf("shift %s: %w", pair, err)
	}
	return printReport(os.Stdout, report, shiftFlags.format)
}
