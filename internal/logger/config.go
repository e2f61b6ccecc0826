package logger

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envConfig はロガーが参照する環境変数
type envConfig struct {
	Debug  string `envconfig:"DEBUG"`
	Level  string `envconfig:"LOG_LEVEL"`
	Format string `envconfig:"LOG_FORMAT"`
}

// ConfigFromEnv は環境変数から設定を読み込む
// LOG_LEVEL は DEBUG より優先される
func ConfigFromEnv() *Config {
	config := &Config{
		Level:  "info",
		Format: "text",
	}

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return config
	}

	if isTrue(env.Debug) {
		config.Level = "debug"
	}
	if env.Level != "" {
		config.Level = strings.ToLower(env.Level)
	}
	if env.Format != "" {
		config.Format = strings.ToLower(env.Format)
	}

	return config
}

// NewFromEnv は環境変数から設定を読み込んでロガーを作成する
func NewFromEnv(opts ...Option) (Logger, error) {
	config := ConfigFromEnv()
	return New(append([]Option{
		WithLevel(config.Level),
		WithFormat(config.Format),
	}, opts...)...)
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
