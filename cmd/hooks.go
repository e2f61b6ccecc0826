package cmd

import (
	"errors"

	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

// hookTarget は --org が指定されていればOrganization、なければリポジトリのWebhookを対象にする
type hookTarget struct {
	org  string
	repo github.RepoRef
}

func resolveHookTarget(cmd *cobra.Command) (hookTarget, error) {
	org, _ := cmd.Flags().GetString("org")
	repoFlag, _ := cmd.Flags().GetString("repo")
	if org != "" {
		if repoFlag != "" {
			return hookTarget{}, errors.New("--org and --repo cannot be used together")
		}
		return hookTarget{org: org}, nil
	}
	repo, err := repoFromFlag(cmd)
	if err != nil {
		return hookTarget{}, err
	}
	return hookTarget{repo: repo}, nil
}

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Webhookを管理する",
	}
	addRepoFlag(cmd)
	cmd.PersistentFlags().String("org", "", "Organization のWebhookを対象にする")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Webhook一覧",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				target, err := resolveHookTarget(cmd)
				if err != nil {
					return err
				}
				client, closeFn, err := newGitHubClient()
				if err != nil {
					return err
				}
				defer closeFn()

				opts := &github.ListOptions{PerPage: 100}
				var hooks []*github.Hook
				if target.org != "" {
					hooks, _, err = client.OrgHooks.List(cmd.Context(), target.org, opts)
				} else {
					hooks, _, err = client.Hooks.List(cmd.Context(), target.repo.Owner, target.repo.Name, opts)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), hooks)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Webhookを取得",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, id, err := hookArgs(cmd, args)
				if err != nil {
					return err
				}
				client, closeFn, err := newGitHubClient()
				if err != nil {
					return err
				}
				defer closeFn()

				var hook *github.Hook
				if target.org != "" {
					hook, _, err = client.OrgHooks.Get(cmd.Context(), target.org, id)
				} else {
					hook, _, err = client.Hooks.Get(cmd.Context(), target.repo.Owner, target.repo.Name, id)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), hook)
			},
		},
		&cobra.Command{
			Use:   "ping <id>",
			Short: "Webhookにpingイベントを送る",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, id, err := hookArgs(cmd, args)
				if err != nil {
					return err
				}
				client, closeFn, err := newGitHubClient()
				if err != nil {
					return err
				}
				defer closeFn()

				if target.org != "" {
					_, err = client.OrgHooks.Ping(cmd.Context(), target.org, id)
				} else {
					_, err = client.Hooks.Ping(cmd.Context(), target.repo.Owner, target.repo.Name, id)
				}
				if err != nil {
					return err
				}
				printDone(cmd, "Pinged hook %d", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Webhookを削除",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				target, id, err := hookArgs(cmd, args)
				if err != nil {
					return err
				}
				client, closeFn, err := newGitHubClient()
				if err != nil {
					return err
				}
				defer closeFn()

				if target.org != "" {
					_, err = client.OrgHooks.Delete(cmd.Context(), target.org, id)
				} else {
					_, err = client.Hooks.Delete(cmd.Context(), target.repo.Owner, target.repo.Name, id)
				}
				if err != nil {
					return err
				}
				printDone(cmd, "Deleted hook %d", id)
				return nil
			},
		},
	)
	return cmd
}

func hookArgs(cmd *cobra.Command, args []string) (hookTarget, int64, error) {
	target, err := resolveHookTarget(cmd)
	if err != nil {
		return hookTarget{}, 0, err
	}
	id, err := parseID("hook id", args[0])
	if err != nil {
		return hookTarget{}, 0, err
	}
	return target, id, nil
}
