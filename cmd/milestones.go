package cmd

import (
	"fmt"
	"time"

	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

func newMilestonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "マイルストーンを管理する",
	}
	addRepoFlag(cmd)

	cmd.AddCommand(
		newMilestonesListCmd(),
		newMilestonesGetCmd(),
		newMilestonesCreateCmd(),
		newMilestonesCloseCmd(),
		newMilestonesDeleteCmd(),
	)
	return cmd
}

func newMilestonesListCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "マイルストーン一覧",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			milestones, _, err := client.Milestones.List(cmd.Context(), repo.Owner, repo.Name, &github.MilestoneListOptions{
				State:       state,
				ListOptions: github.ListOptions{PerPage: 100},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), milestones)
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "状態 (open, closed, all)")
	return cmd
}

func newMilestonesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <number>",
		Short: "マイルストーンを取得",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			number, err := parsePositiveInt("milestone number", args[0])
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ms, _, err := client.Milestones.Get(cmd.Context(), repo.Owner, repo.Name, number)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ms)
		},
	}
}

func newMilestonesCreateCmd() *cobra.Command {
	var description, due string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "マイルストーンを作成",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}

			req := &github.MilestoneRequest{Title: github.String(args[0])}
			if description != "" {
				req.Description = github.String(description)
			}
			if due != "" {
				dueOn, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", due)
				}
				req.DueOn = &dueOn
			}

			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ms, _, err := client.Milestones.Create(cmd.Context(), repo.Owner, repo.Name, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ms)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "説明")
	cmd.Flags().StringVar(&due, "due", "", "期限 (YYYY-MM-DD)")
	return cmd
}

func newMilestonesCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <number>",
		Short: "マイルストーンを閉じる",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			number, err := parsePositiveInt("milestone number", args[0])
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ms, _, err := client.Milestones.Close(cmd.Context(), repo.Owner, repo.Name, number)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ms)
		},
	}
}

func newMilestonesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number>",
		Short: "マイルストーンを削除",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			number, err := parsePositiveInt("milestone number", args[0])
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			if _, err := client.Milestones.Delete(cmd.Context(), repo.Owner, repo.Name, number); err != nil {
				return err
			}
			printDone(cmd, "Deleted milestone #%d", number)
			return nil
		},
	}
}
