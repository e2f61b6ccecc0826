package cmd

import (
	"fmt"

	"github.com/douhashi/ghkit/internal/auth"
	"github.com/douhashi/ghkit/internal/cache"
	"github.com/douhashi/ghkit/internal/config"
	"github.com/douhashi/ghkit/internal/version"
	"github.com/douhashi/ghkit/pkg/github"
)

// newGitHubClient は設定からクライアントを作成する
// 返されるclose関数はキャッシュの接続を閉じる
func newGitHubClient() (*github.Client, func(), error) {
	if err := appConfig.Validate(); err != nil {
		return nil, nil, err
	}

	ts, err := auth.TokenSource(appConfig.GitHub)
	if err != nil {
		return nil, nil, err
	}

	opts := []github.Option{
		github.WithBaseURL(appConfig.GitHub.BaseURL),
		github.WithUserAgent(userAgent(appConfig.GitHub.UserAgent)),
		github.WithLogger(appLog),
		github.WithTimeout(appConfig.HTTP.Timeout),
		github.WithRateLimit(appConfig.HTTP.RateLimitPerHour),
		github.WithRetryStrategy(retryStrategy(appConfig.Retry)),
	}

	closeFn := func() {}
	if appConfig.Cache.Enabled {
		c, closer, err := newResponseCache(appConfig.Cache)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, github.WithCache(c))
		closeFn = closer
	}

	client, err := github.NewClientWithTokenSource(ts, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return client, closeFn, nil
}

func newResponseCache(cfg config.CacheConfig) (github.ResponseCache, func(), error) {
	if cfg.RedisURL != "" {
		c, err := cache.NewRedis(cfg.RedisURL, cfg.TTL, cache.WithLogger(appLog))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	}

	c, err := cache.NewMemory(cfg.Size, cfg.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return c, func() {}, nil
}

func retryStrategy(cfg config.RetryConfig) github.RetryStrategy {
	return github.RetryStrategy{
		MaxAttempts:  cfg.MaxAttempts,
		InitialDelay: cfg.InitialDelay,
		MaxDelay:     cfg.MaxDelay,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

func userAgent(base string) string {
	if base == "" {
		base = "ghkit"
	}
	return base + "/" + version.Get().Version
}
