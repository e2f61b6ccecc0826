package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/douhashi/ghkit/internal/logger"
)

// Config はアプリケーション全体の設定
type Config struct {
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
	HTTP   HTTPConfig   `mapstructure:"http" yaml:"http"`
	Retry  RetryConfig  `mapstructure:"retry" yaml:"retry"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// GitHubConfig はGitHub関連の設定
type GitHubConfig struct {
	Token     string    `mapstructure:"token" yaml:"token"`
	BaseURL   string    `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	UserAgent string    `mapstructure:"user_agent" yaml:"user_agent"`
	App       AppConfig `mapstructure:"app" yaml:"app"`
}

// AppConfig はGitHub Appとして認証する場合の設定
// いずれかを設定した場合は3つとも必須
type AppConfig struct {
	ClientID       string `mapstructure:"client_id" yaml:"client_id" validate:"required_with=PrivateKeyPath InstallationID"`
	PrivateKeyPath string `mapstructure:"private_key_path" yaml:"private_key_path" validate:"required_with=ClientID InstallationID"`
	InstallationID int64  `mapstructure:"installation_id" yaml:"installation_id" validate:"required_with=ClientID PrivateKeyPath,gte=0"`
}

// Enabled はGitHub App認証が設定されているかを返す
func (a AppConfig) Enabled() bool {
	return a.ClientID != ""
}

// HTTPConfig はHTTPクライアントの設定
type HTTPConfig struct {
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	RateLimitPerHour int           `mapstructure:"rate_limit_per_hour" yaml:"rate_limit_per_hour" validate:"gte=0"`
}

// RetryConfig はリトライの設定
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts" validate:"gte=1"`
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay" validate:"gte=0"`
	MaxDelay     time.Duration `mapstructure:"max_delay" yaml:"max_delay" validate:"gtefield=InitialDelay"`
}

// CacheConfig はレスポンスキャッシュの設定
// RedisURLが設定されていればRedis、なければメモリ上のLRUを使う
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Size     int           `mapstructure:"size" yaml:"size" validate:"gt=0"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
	RedisURL string        `mapstructure:"redis_url" yaml:"redis_url" validate:"omitempty,url"`
}

// LogConfig はログの設定
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json console"`
}

var defaults = map[string]interface{}{
	"github.token":                "",
	"github.base_url":             "https://api.github.com/",
	"github.user_agent":           "ghkit",
	"github.app.client_id":        "",
	"github.app.private_key_path": "",
	"github.app.installation_id":  0,
	"http.timeout":                30 * time.Second,
	"http.rate_limit_per_hour":    0,
	"retry.max_attempts":          3,
	"retry.initial_delay":         1 * time.Second,
	"retry.max_delay":             30 * time.Second,
	"cache.enabled":               false,
	"cache.size":                  1000,
	"cache.ttl":                   10 * time.Minute,
	"cache.redis_url":             "",
	"log.level":                   "info",
	"log.format":                  "text",
}

// NewConfig はデフォルト値のConfigを作成する
func NewConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com/",
			UserAgent: "ghkit",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
		},
		Cache: CacheConfig{
			Size: 1000,
			TTL:  10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定ファイルと環境変数から設定を読み込む
// configPathが空の場合は環境変数とデフォルト値のみを使う
// 優先順位: GHKIT_* 環境変数 > 設定ファイル > デフォルト値
func (c *Config) Load(configPath string) error {
	loadDotEnv()

	v := viper.New()

	// 環境変数の設定
	v.SetEnvPrefix("GHKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// GITHUB_TOKENもサポート
	_ = v.BindEnv("github.token", "GHKIT_GITHUB_TOKEN", "GITHUB_TOKEN")

	// AutomaticEnvはUnmarshal時に既知のキーしか見ないので全キーにデフォルトを置く
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// DEBUG / LOG_LEVEL / LOG_FORMAT はログ設定のデフォルトとして扱う
	logEnv := logger.ConfigFromEnv()
	v.SetDefault("log.level", logEnv.Level)
	v.SetDefault("log.format", logEnv.Format)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// LoadOrDefault は設定ファイルが存在すれば読み込み、存在しなければ環境変数とデフォルト値のみを使う
func (c *Config) LoadOrDefault(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = ""
	}
	return c.Load(configPath)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.GitHub.Token == "" && !c.GitHub.App.Enabled() {
		return errors.New("GitHub token or GitHub App credentials are required")
	}

	return nil
}

// Masked はトークンを伏せたコピーを返す
func (c *Config) Masked() *Config {
	masked := *c
	if masked.GitHub.Token != "" {
		_, v := logger.SanitizeKeyValue("token", masked.GitHub.Token)
		masked.GitHub.Token = fmt.Sprint(v)
	}
	return &masked
}

// YAML は設定ファイルと同じ形式で設定を書き出す
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// loadDotEnv はカレントディレクトリの .env を読み込む
// 既に設定されている環境変数は上書きしない
func loadDotEnv() {
	files := []string{".env"}
	if env := strings.TrimSpace(os.Getenv("GHKIT_ENV")); env != "" {
		files = append(files, ".env."+env)
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}
