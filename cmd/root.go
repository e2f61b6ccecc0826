package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/douhashi/ghkit/internal/config"
	"github.com/douhashi/ghkit/internal/logger"
	"github.com/douhashi/ghkit/internal/paths"
	"github.com/douhashi/ghkit/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	rootCmd   *cobra.Command
	appLog    logger.Logger
	appConfig *config.Config
)

func init() {
	rootCmd = NewRootCmd()
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newAPICmd())
	cmd.AddCommand(newLabelsCmd())
	cmd.AddCommand(newBranchesCmd())
	cmd.AddCommand(newHooksCmd())
	cmd.AddCommand(newRefsCmd())
	cmd.AddCommand(newMilestonesCmd())
	cmd.AddCommand(newRateLimitCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
}

// NewRootCmd creates a new root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addCommands(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ghkit",
		Short: "GitHub REST APIクライアント",
		Long: `ghkitは、GitHub REST APIを型付きで操作するためのCLIツールです。
ラベル、ブランチ保護、Webhook、リファレンス、マイルストーンを管理できます。`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 設定ファイルを先に読み込む
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			// ロガーの初期化
			level := appConfig.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			if verbose {
				level = "debug"
			}
			var err error
			appLog, err = logger.New(
				logger.WithLevel(level),
				logger.WithFormat(appConfig.Log.Format),
				logger.WithOutput(cmd.ErrOrStderr()),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "設定ファイルのパス")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "詳細出力")
	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "ログレベル (debug, info, warn, error)")

	return cmd
}

// Execute はルートコマンドを実行する。エラーは標準エラー出力に表示して終了コード1で終わる
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initConfig は --config が指定されていればそのファイルを、
// なければ ~/.config/ghkit/ghkit.yml を（存在すれば）読み込む
func initConfig() error {
	appConfig = config.NewConfig()
	if cfgFile != "" {
		return appConfig.Load(cfgFile)
	}
	return appConfig.LoadOrDefault(paths.NewPathManager("").ConfigFile())
}
