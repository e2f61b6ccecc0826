package cmd

import (
	"fmt"
	"regexp"

	"github.com/douhashi/ghkit/internal/paths"
	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "ラベルを管理する",
	}
	addRepoFlag(cmd)

	cmd.AddCommand(
		newLabelsListCmd(),
		newLabelsGetCmd(),
		newLabelsCreateCmd(),
		newLabelsUpdateCmd(),
		newLabelsDeleteCmd(),
		newLabelsSyncCmd(),
		newLabelsAddCmd(),
		newLabelsRemoveCmd(),
	)
	return cmd
}

func newLabelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "リポジトリのラベル一覧",
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

			labels, err := client.Labels.ListAll(cmd.Context(), repo.Owner, repo.Name)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), labels)
		},
	}
}

func newLabelsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "ラベルを取得",
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

			label, _, err := client.Labels.Get(cmd.Context(), repo.Owner, repo.Name, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), label)
		},
	}
}

func newLabelsCreateCmd() *cobra.Command {
	var color, description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "ラベルを作成",
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

			req := &github.LabelRequest{Name: github.String(args[0])}
			if color != "" {
				req.Color = github.String(color)
			}
			if description != "" {
				req.Description = github.String(description)
			}

			label, _, err := client.Labels.Create(cmd.Context(), repo.Owner, repo.Name, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), label)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "色 (例: d73a4a)")
	cmd.Flags().StringVar(&description, "description", "", "説明")
	return cmd
}

func newLabelsUpdateCmd() *cobra.Command {
	var newName, color, description string

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "ラベルを更新",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}

			req := &github.LabelRequest{}
			if cmd.Flags().Changed("name") {
				req.NewName = github.String(newName)
			}
			if cmd.Flags().Changed("color") {
				req.Color = github.String(color)
			}
			if cmd.Flags().Changed("description") {
				req.Description = github.String(description)
			}
			if req.NewName == nil && req.Color == nil && req.Description == nil {
				return fmt.Errorf("nothing to update: specify --name, --color or --description")
			}

			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			label, _, err := client.Labels.Update(cmd.Context(), repo.Owner, repo.Name, args[0], req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), label)
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "新しい名前")
	cmd.Flags().StringVar(&color, "color", "", "色")
	cmd.Flags().StringVar(&description, "description", "", "説明")
	return cmd
}

func newLabelsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "ラベルを削除",
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

			if _, err := client.Labels.Delete(cmd.Context(), repo.Owner, repo.Name, args[0]); err != nil {
				return err
			}
			printDone(cmd, "Deleted label %s", args[0])
			return nil
		},
	}
}

// labelsFile は labels sync が読むYAMLの形式
// color は文字列として書く。000000 のように数字だけだと整数として読まれてしまう
//
//	labels:
//	  - name: status:ready
//	    color: "0e8a16"
//	    description: 実装準備完了
type labelsFile struct {
	Labels []github.LabelDefinition `mapstructure:"labels"`
}

func loadLabelDefinitions(path string) ([]github.LabelDefinition, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read label definitions: %w", err)
	}

	var f labelsFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse label definitions: %w", err)
	}
	if len(f.Labels) == 0 {
		return nil, fmt.Errorf("no labels defined in %s", path)
	}
	for _, def := range f.Labels {
		if def.Color != "" && !labelColorPattern.MatchString(def.Color) {
			return nil, fmt.Errorf("label %q has invalid color %q: use 6 hex digits and quote them, e.g. color: \"000000\"", def.Name, def.Color)
		}
	}
	return f.Labels, nil
}

var labelColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

func newLabelsSyncCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "定義ファイルのラベルのうち、存在しないものを作成",
		Long: `ラベル定義ファイル（デフォルト: ~/.config/ghkit/labels.yml）を読み込み、
リポジトリに存在しないラベルを作成します。既存のラベルは変更しません。

color は "000000" のように引用符で囲んでください。
数字だけの値はYAMLで整数として読まれ、先頭の0が失われます。

途中で作成に失敗した場合も、それまでに作成したラベルを出力します。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				file = paths.NewPathManager("").LabelsFile()
			}
			defs, err := loadLabelDefinitions(file)
			if err != nil {
				return err
			}

			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := client.Labels.EnsureExist(cmd.Context(), repo.Owner, repo.Name, defs)
			if err != nil && len(created) == 0 {
				return err
			}
			if created == nil {
				created = []string{}
			}
			if printErr := printJSON(cmd.OutOrStdout(), map[string][]string{"created": created}); printErr != nil {
				return printErr
			}
			// 作成済みのラベルを出力したうえで失敗を返す
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "ラベル定義ファイル (YAML)")
	return cmd
}

func newLabelsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <issue> <label>...",
		Short: "Issueにラベルを追加",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			number, err := parsePositiveInt("issue number", args[0])
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			labels, _, err := client.Labels.AddToIssue(cmd.Context(), repo.Owner, repo.Name, number, args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), labels)
		},
	}
}

func newLabelsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <issue> <label>",
		Short: "Issueからラベルを削除",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repoFromFlag(cmd)
			if err != nil {
				return err
			}
			number, err := parsePositiveInt("issue number", args[0])
			if err != nil {
				return err
			}
			client, closeFn, err := newGitHubClient()
			if err != nil {
				return err
			}
			defer closeFn()

			if _, err := client.Labels.RemoveFromIssue(cmd.Context(), repo.Owner, repo.Name, number, args[1]); err != nil {
				return err
			}
			printDone(cmd, "Removed label %s from #%d", args[1], number)
			return nil
		},
	}
}
