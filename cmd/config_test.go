package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigInitCmd(t *testing.T) {
	setupCLI(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "ghkit")

	t.Run("正常系: ひな形を作成する", func(t *testing.T) {
		_, stderr, err := runCLI(t, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Created "+filepath.Join(dir, "ghkit.yml"))
		assert.Contains(t, stderr, "Created "+filepath.Join(dir, "labels.yml"))

		data, err := os.ReadFile(filepath.Join(dir, "ghkit.yml"))
		require.NoError(t, err)

		var configData map[string]interface{}
		require.NoError(t, yaml.Unmarshal(data, &configData))
		github, ok := configData["github"].(map[string]interface{})
		require.True(t, ok, "github section not found in created config")
		assert.Equal(t, "https://api.github.com/", github["base_url"])

		data, err = os.ReadFile(filepath.Join(dir, "labels.yml"))
		require.NoError(t, err)
		var labelsData struct {
			Labels []map[string]string `yaml:"labels"`
		}
		require.NoError(t, yaml.Unmarshal(data, &labelsData))
		assert.NotEmpty(t, labelsData.Labels)
	})

	t.Run("正常系: 既存のファイルは上書きしない", func(t *testing.T) {
		path := filepath.Join(dir, "labels.yml")
		require.NoError(t, os.WriteFile(path, []byte("labels: []\n"), 0644))

		_, stderr, err := runCLI(t, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Skipped "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "labels: []\n", string(data))
	})

	t.Run("正常系: --force で上書きする", func(t *testing.T) {
		_, _, err := runCLI(t, "config", "init", "--force")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "labels.yml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: bug")
	})
}

func TestConfigShowCmd(t *testing.T) {
	setupCLI(t)
	t.Setenv("GHKIT_CACHE_TTL", "5m")

	stdout, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "test-token")

	var shown map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, "***MASKED***", shown["github"]["token"])
	assert.Equal(t, "5m0s", shown["cache"]["ttl"])
	assert.Equal(t, 1, shown["retry"]["max_attempts"])
}
