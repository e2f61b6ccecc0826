package cmd

import (
	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

func newRefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Gitリファレンスを管理する",
		Long: `ブランチやタグのリファレンスを操作します。
リファレンスは "heads/main" や "tags/v1.0.0" の形式で指定します（"refs/" は省略可能）。`,
	}
	addRepoFlag(cmd)

	var force bool
	update := &cobra.Command{
		Use:   "update <ref> <sha>",
		Short: "リファレンスの指す先を更新",
		Args:  cobra.ExactArgs(2),
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

			ref, _, err := client.References.Update(cmd.Context(), repo.Owner, repo.Name, args[0], args[1], force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ref)
		},
	}
	update.Flags().BoolVar(&force, "force", false, "fast-forwardでない更新を許可する")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list [namespace]",
			Short: "リファレンス一覧 (namespace例: heads, tags/v1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := repoFromFlag(cmd)
				if err != nil {
					return err
				}
				namespace := ""
				if len(args) == 1 {
					namespace = args[0]
				}
				client, closeFn, err := newGitHubClient()
				if err != nil {
					return err
				}
				defer closeFn()

				refs, _, err := client.References.List(cmd.Context(), repo.Owner, repo.Name, namespace, &github.ListOptions{PerPage: 100})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), refs)
			},
		},
		&cobra.Command{
			Use:   "get <ref>",
			Short: "リファレンスを取得",
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

				ref, _, err := client.References.Get(cmd.Context(), repo.Owner, repo.Name, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ref)
			},
		},
		&cobra.Command{
			Use:   "create <ref> <sha>",
			Short: "リファレンスを作成",
			Args:  cobra.ExactArgs(2),
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

				ref, _, err := client.References.Create(cmd.Context(), repo.Owner, repo.Name, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ref)
			},
		},
		update,
		&cobra.Command{
			Use:   "delete <ref>",
			Short: "リファレンスを削除",
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

				if _, err := client.References.Delete(cmd.Context(), repo.Owner, repo.Name, args[0]); err != nil {
					return err
				}
				printDone(cmd, "Deleted ref %s", args[0])
				return nil
			},
		},
	)
	return cmd
}
