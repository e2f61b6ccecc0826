package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/douhashi/ghkit/pkg/github"
)

var (
	httpsRemotePattern = regexp.MustCompile(`^https?://(?:[^@/]+@)?([^/]+)/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshRemotePattern   = regexp.MustCompile(`^(?:ssh://)?[^@]+@([^:/]+)(?::\d+)?[:/]([^/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRemoteURL はgitのリモートURLからowner/repoを抽出する
// hostが空の場合は github.com のURLのみ受け付ける（GitHub Enterprise Serverではホスト名を渡す）
// 以下の形式に対応:
// - https://github.com/owner/repo.git
// - https://github.com/owner/repo
// - git@github.com:owner/repo.git
// - ssh://git@github.com/owner/repo.git
func ParseRemoteURL(remoteURL, host string) (github.RepoRef, error) {
	if host == "" {
		host = "github.com"
	}
	remoteURL = strings.TrimSpace(remoteURL)

	for _, pattern := range []*regexp.Regexp{httpsRemotePattern, sshRemotePattern} {
		matches := pattern.FindStringSubmatch(remoteURL)
		if len(matches) != 4 {
			continue
		}
		if !strings.EqualFold(matches[1], host) {
			return github.RepoRef{}, fmt.Errorf("remote %s is not hosted on %s", remoteURL, host)
		}
		return github.RepoRef{Owner: matches[2], Name: matches[3]}, nil
	}

	return github.RepoRef{}, fmt.Errorf("invalid GitHub URL format: %s", remoteURL)
}
