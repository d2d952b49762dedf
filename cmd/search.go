package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search YouTube and save the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			query := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Searching YouTube for: %q...\n", query)
			results, saved, err := appInstance.Tracker().Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "  No results.")
				return nil
			}
			renderVideos(out, results)
			fmt.Fprintf(out, "\n%d results shown | %d new videos saved to database\n", len(results), saved)
			return nil
		},
	}
}
