package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

func newRunTrackerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-tracker",
		Short: "Scrape every tracked query once, now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report, err := appInstance.Tracker().RunOnce(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if report.Queries == 0 {
				fmt.Fprintln(out, "No tracked queries. Add one with: vidwatch track \"query\"")
				return nil
			}
			fmt.Fprintf(out, "Tracker run complete: %d queries, %d results, %d new saved\n",
				report.Queries, report.Results, report.New)
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start-scheduler",
		Short: "Auto-scrape tracked queries every N hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := appInstance.Config()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Scheduler started: scraping tracked queries every %d hours. Ctrl+C to stop.\n",
				cfg.Scheduler.IntervalHours)

			sched := tracker.NewScheduler(
				appInstance.Tracker(),
				cfg.TrackInterval(),
				appInstance.Logger().Named("scheduler"),
			)
			if err := sched.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(out, "Scheduler stopped.")
			return nil
		},
	}
}
