package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/douhashi/ghkit/internal/utils"
	"github.com/douhashi/ghkit/pkg/github"
	"github.com/spf13/cobra"
)

// printJSON は結果をインデント付きJSONで出力する
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult は api コマンドの結果を形式に応じて出力する
func printResult(w io.Writer, res *github.Result) error {
	switch res.Format {
	case github.FormatString:
		if res.Text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, res.Text)
		return err
	case github.FormatObject:
		return printJSON(w, res.Object)
	case github.FormatArray:
		return printJSON(w, res.Array)
	default:
		if len(res.Raw) == 0 {
			return nil
		}
		return printJSON(w, res.Raw)
	}
}

// printDone は標準出力をJSONのために空けておき、完了メッセージを標準エラー出力に出す
func printDone(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func addRepoFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("repo", "R", "", "対象リポジトリ (owner/repo)。未指定時は GHKIT_REPO、次にカレントディレクトリの origin")
}

// repoFromFlag は --repo、GHKIT_REPO、カレントディレクトリの origin の順に対象リポジトリを決める
func repoFromFlag(cmd *cobra.Command) (github.RepoRef, error) {
	s, _ := cmd.Flags().GetString("repo")
	if s == "" {
		s = os.Getenv("GHKIT_REPO")
	}
	if s != "" {
		return github.ParseRepo(s)
	}

	if wd, err := os.Getwd(); err == nil {
		repo, err := utils.DetectRepo(cmd.Context(), wd, remoteHost())
		if err == nil {
			if appLog != nil {
				appLog.Debug("repository_detected", "repo", repo.String())
			}
			return repo, nil
		}
		if appLog != nil {
			appLog.Debug("repository_detection_failed", "error", err.Error())
		}
	}
	return github.RepoRef{}, fmt.Errorf("repository is required: use --repo owner/repo")
}

// remoteHost はAPIのベースURLからgitリモートのホスト名を求める
// api.github.com の場合は空文字（github.com）を返す
func remoteHost() string {
	if appConfig == nil {
		return ""
	}
	u, err := url.Parse(appConfig.GitHub.BaseURL)
	if err != nil || u.Hostname() == "" || u.Hostname() == "api.github.com" {
		return ""
	}
	return u.Hostname()
}

func parsePositiveInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return n, nil
}

func parseID(name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return n, nil
}
