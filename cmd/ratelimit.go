package cmd

import (
	"github.com/spf13/cobra"
)

func newRateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "APIのレート制限の状況を表示",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			limits, _, err := client.RateLimits(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), limits)
		},
	}
}
