package cmd

import (
	"github.com/spf13/cobra"
)

func newTrendingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show fastest-growing videos between their two latest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := appInstance.Store().Trending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderTrending(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max results")
	return cmd
}

func newDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Show videos appearing under multiple queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := appInstance.Store().Duplicates(cmd.Context())
			if err != nil {
				return err
			}
			renderDuplicates(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
