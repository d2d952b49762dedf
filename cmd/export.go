package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidwatch/vidwatch/internal/export"
	"github.com/vidwatch/vidwatch/internal/tracker"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [query]",
		Short: "Export the database (or one topic) to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			rows, err := appInstance.Store().ListVideos(cmd.Context(), tracker.ListFilter{
				Query: query,
				Limit: -1,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No data found to export.")
				return nil
			}

			path, err := export.File(
				appInstance.Config().Export.Dir,
				query,
				time.Now().UTC(),
				rows,
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d videos to: %s\n", len(rows), path)
			return nil
		},
	}
}
