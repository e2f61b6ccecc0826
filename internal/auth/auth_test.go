package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douhashi/ghkit/internal/config"
)

func writePrivateKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	data := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	path := filepath.Join(t.TempDir(), "app.pem")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestTokenSource(t *testing.T) {
	t.Run("正常系: パーソナルアクセストークン", func(t *testing.T) {
		ts, err := TokenSource(config.GitHubConfig{Token: "test-token"})
		require.NoError(t, err)

		token, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "test-token", token.AccessToken)
	})

	t.Run("正常系: GitHub Appの設定が優先される", func(t *testing.T) {
		ts, err := TokenSource(config.GitHubConfig{
			Token: "test-token",
			App: config.AppConfig{
				ClientID:       "Iv1.abc",
				PrivateKeyPath: writePrivateKey(t),
				InstallationID: 42,
			},
		})
		require.NoError(t, err)
		assert.NotNil(t, ts)
	})

	t.Run("異常系: 認証情報なし", func(t *testing.T) {
		_, err := TokenSource(config.GitHubConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GitHub token is required")
	})
}

func TestAppTokenSource(t *testing.T) {
	tests := []struct {
		name    string
		app     func(t *testing.T) config.AppConfig
		wantErr string
	}{
		{
			name: "異常系: client IDなし",
			app: func(t *testing.T) config.AppConfig {
				return config.AppConfig{PrivateKeyPath: "/k.pem", InstallationID: 1}
			},
			wantErr: "client ID is required",
		},
		{
			name: "異常系: installation IDなし",
			app: func(t *testing.T) config.AppConfig {
				return config.AppConfig{ClientID: "Iv1.abc", PrivateKeyPath: "/k.pem"}
			},
			wantErr: "installation ID is required",
		},
		{
			name: "異常系: 秘密鍵のパスなし",
			app: func(t *testing.T) config.AppConfig {
				return config.AppConfig{ClientID: "Iv1.abc", InstallationID: 1}
			},
			wantErr: "private key path is required",
		},
		{
			name: "異常系: 秘密鍵ファイルが存在しない",
			app: func(t *testing.T) config.AppConfig {
				return config.AppConfig{
					ClientID:       "Iv1.abc",
					PrivateKeyPath: filepath.Join(t.TempDir(), "missing.pem"),
					InstallationID: 1,
				}
			},
			wantErr: "failed to read private key",
		},
		{
			name: "異常系: 秘密鍵が不正",
			app: func(t *testing.T) config.AppConfig {
				path := filepath.Join(t.TempDir(), "bad.pem")
				require.NoError(t, os.WriteFile(path, []byte("not a key"), 0600))
				return config.AppConfig{ClientID: "Iv1.abc", PrivateKeyPath: path, InstallationID: 1}
			},
			wantErr: "failed to create application token source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AppTokenSource(tt.app(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
