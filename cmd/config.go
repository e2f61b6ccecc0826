package cmd

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/douhashi/ghkit/internal/paths"
	"github.com/spf13/cobra"
)

//go:embed templates/*
var templateFS embed.FS

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定ファイルの操作",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "設定ファイルとラベル定義のひな形を作成",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pm := paths.NewPathManager("")
			if err := pm.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			files := []struct {
				src string
				dst string
			}{
				{src: "templates/ghkit.yml", dst: pm.ConfigFile()},
				{src: "templates/labels.yml", dst: pm.LabelsFile()},
			}
			for _, f := range files {
				if _, err := os.Stat(f.dst); err == nil && !force {
					printDone(cmd, "Skipped %s (already exists)", f.dst)
					continue
				}

				data, err := templateFS.ReadFile(f.src)
				if err != nil {
					return fmt.Errorf("failed to read template %s: %w", filepath.Base(f.src), err)
				}
				if err := os.WriteFile(f.dst, data, 0600); err != nil {
					return fmt.Errorf("failed to write %s: %w", f.dst, err)
				}
				printDone(cmd, "Created %s", f.dst)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "既存のファイルを上書きする")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "有効な設定を表示（トークンは伏せる）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := appConfig.Masked().YAML()
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
