package cmd

import (
	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

func newBranchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "ブランチとブランチ保護を管理する",
	}
	addRepoFlag(cmd)

	cmd.AddCommand(
		newBranchesListCmd(),
		newBranchesGetCmd(),
		newBranchesProtectionCmd(),
	)
	return cmd
}

func newBranchesListCmd() *cobra.Command {
	var protected bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "ブランチ一覧",
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

			if !protected {
				branches, err := client.Branches.ListAll(cmd.Context(), repo.Owner, repo.Name)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), branches)
			}

			branches, _, err := client.Branches.List(cmd.Context(), repo.Owner, repo.Name, &github.BranchListOptions{
				Protected:   github.Bool(true),
				ListOptions: github.ListOptions{PerPage: 100},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), branches)
		},
	}

	cmd.Flags().BoolVar(&protected, "protected", false, "保護されたブランチのみ")
	return cmd
}

func newBranchesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <branch>",
		Short: "ブランチを取得",
		Args:  cobra.ExactArgs(1),
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

			branch, _, err := client.Branches.Get(cmd.Context(), repo.Owner, repo.Name, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), branch)
		},
	}
}

func newBranchesProtectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protection",
		Short: "ブランチ保護の設定",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <branch>",
			Short: "ブランチ保護の設定を取得",
			Args:  cobra.ExactArgs(1),
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

				protection, _, err := client.ProtectedBranches.Get(cmd.Context(), repo.Owner, repo.Name, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), protection)
			},
		},
		&cobra.Command{
			Use:   "remove <branch>",
			Short: "ブランチ保護を解除",
			Args:  cobra.ExactArgs(1),
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

				if _, err := client.ProtectedBranches.Remove(cmd.Context(), repo.Owner, repo.Name, args[0]); err != nil {
					return err
				}
				printDone(cmd, "Removed protection from %s", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "checks <branch>",
			Short: "必須ステータスチェックを取得",
			Args:  cobra.ExactArgs(1),
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

				checks, _, err := client.ProtectedBranches.GetRequiredStatusChecks(cmd.Context(), repo.Owner, repo.Name, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), checks)
			},
		},
	)
	return cmd
}
