package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <query>",
		Short: "Add a query to recurring tracking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			added, err := appInstance.Store().AddTrackedQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if added {
				fmt.Fprintf(out, "Now tracking: %q\n", args[0])
				fmt.Fprintln(out, "Run 'vidwatch start-scheduler' to auto-scrape on a schedule.")
			} else {
				fmt.Fprintf(out, "Already tracking: %q\n", args[0])
			}
			return nil
		},
	}
}

func newUntrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untrack <query>",
		Short: "Remove a query from tracking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := appInstance.Store().RemoveTrackedQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if removed {
				fmt.Fprintf(out, "Removed %q from tracking.\n", args[0])
			} else {
				fmt.Fprintf(out, "%q was not in the tracked list.\n", args[0])
			}
			return nil
		},
	}
}

func newTrackedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracked",
		Short: "List all tracked queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			queries, err := appInstance.Store().ListTrackedQueries(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(queries) == 0 {
				fmt.Fprintln(out, "No tracked queries yet. Use: vidwatch track \"your query\"")
				return nil
			}
			fmt.Fprintln(out, "Tracked queries:")
			for i, q := range queries {
				fmt.Fprintf(out, "  %d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
