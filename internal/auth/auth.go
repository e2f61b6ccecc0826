// Package auth はGitHub APIのトークンソースを組み立てる
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/jferrl/go-githubauth"
	"golang.org/x/oauth2"

	"github.com/douhashi/ghkit/internal/config"
)

// TokenSource は設定に応じたトークンソースを返す
// GitHub Appの設定があればインストールトークン、なければパーソナルアクセストークンを使う
func TokenSource(cfg config.GitHubConfig) (oauth2.TokenSource, error) {
	if cfg.App.Enabled() {
		return AppTokenSource(cfg.App)
	}
	if cfg.Token == "" {
		return nil, errors.New("GitHub token is required")
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}), nil
}

// AppTokenSource はGitHub Appの秘密鍵からインストールトークンを発行するトークンソースを返す
// トークンは期限が切れるまで再利用される
func AppTokenSource(app config.AppConfig) (oauth2.TokenSource, error) {
	if app.ClientID == "" {
		return nil, errors.New("GitHub App client ID is required")
	}
	if app.InstallationID <= 0 {
		return nil, errors.New("GitHub App installation ID is required")
	}
	if app.PrivateKeyPath == "" {
		return nil, errors.New("GitHub App private key path is required")
	}

	privateKey, err := os.ReadFile(app.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	appTokenSource, err := githubauth.NewApplicationTokenSource(app.ClientID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create application token source: %w", err)
	}
	installationTokenSource := githubauth.NewInstallationTokenSource(app.InstallationID, appTokenSource)

	return oauth2.ReuseTokenSource(nil, installationTokenSource), nil
}
