package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/douhashi/ghkit/pkg/github"
)

// DetectRepoError は詳細なエラー情報を持つエラー型
type DetectRepoError struct {
	Step    string // どの段階で失敗したか
	Cause   error  // 根本的な原因
	Message string // ユーザー向けメッセージ
}

func (e *DetectRepoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *DetectRepoError) Unwrap() error {
	return e.Cause
}

// DetectRepo は dir を含むGitリポジトリの origin からGitHubリポジトリを特定する
// --repo が指定されなかった場合の既定値として使う
func DetectRepo(ctx context.Context, dir, host string) (github.RepoRef, error) {
	gitDir := findGitDirectory(dir)
	if gitDir == "" {
		return github.RepoRef{}, &DetectRepoError{
			Step:    "git_directory",
			Cause:   fmt.Errorf("no .git directory found"),
			Message: "Gitリポジトリが見つかりません",
		}
	}

	// git remote get-url origin を実行
	remoteURL, err := remoteURL(ctx, filepath.Dir(gitDir), "origin")
	if err != nil {
		return github.RepoRef{}, &DetectRepoError{
			Step:    "remote_url",
			Cause:   err,
			Message: "リモートURL取得に失敗しました。'origin' リモートが設定されているか確認してください",
		}
	}

	repo, err := ParseRemoteURL(remoteURL, host)
	if err != nil {
		return github.RepoRef{}, &DetectRepoError{
			Step:    "url_parsing",
			Cause:   err,
			Message: fmt.Sprintf("GitHub URL解析に失敗しました。URL: %s", remoteURL),
		}
	}
	return repo, nil
}

func remoteURL(ctx context.Context, repoRoot, remote string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "-C", repoRoot, "remote", "get-url", remote)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// findGitDirectory は指定されたパスから.gitを探す
// worktreeでは.gitがファイルになるが、存在すればリポジトリのルートとみなす
func findGitDirectory(startPath string) string {
	path := startPath
	for {
		gitPath := filepath.Join(path, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			return gitPath
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}
	return ""
}
