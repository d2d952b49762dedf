package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

func newBrowseCmd() *cobra.Command {
	var (
		keyword string
		query   string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the saved database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			videos, err := appInstance.Store().ListVideos(cmd.Context(), tracker.ListFilter{
				Keyword: keyword,
				Query:   query,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderObservations(out, videos)
			if len(videos) > 0 {
				fmt.Fprintf(out, "\n%d videos shown\n", len(videos))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "filter titles by keyword")
	cmd.Flags().StringVar(&query, "query", "", "filter by originating search query")
	cmd.Flags().IntVar(&limit, "limit", 100, "max rows")
	return cmd
}
