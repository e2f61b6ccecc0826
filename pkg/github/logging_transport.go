package github

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger はクライアントが使用するログインターフェース
// internal/logger.Logger はこのインターフェースを満たす
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const bodyPreviewLimit = 200

// loggingRoundTripper はHTTPリクエスト/レスポンスをログ出力するラウンドトリッパー
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger Logger
}

// RoundTrip はHTTPリクエストを実行し、リクエスト/レスポンスの詳細をログ出力する
func (rt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rt.logRequest(req)

	resp, err := rt.base.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		rt.logger.Error("github_api_error",
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	rt.logResponse(resp, duration)

	return resp, nil
}

// logRequest はHTTPリクエストの詳細をログ出力する
func (rt *loggingRoundTripper) logRequest(req *http.Request) {
	fields := []interface{}{
		"method", req.Method,
		"url", req.URL.String(),
	}

	// Authorizationヘッダーをマスキング
	if auth := req.Header.Get("Authorization"); auth != "" {
		fields = append(fields, "authorization", maskAuthHeader(auth))
	}

	if ua := req.Header.Get("User-Agent"); ua != "" {
		fields = append(fields, "user_agent", ua)
	}

	rt.logger.Debug("github_api_request", fields...)
}

// logResponse はHTTPレスポンスの詳細をログ出力する
func (rt *loggingRoundTripper) logResponse(resp *http.Response, duration time.Duration) {
	fields := []interface{}{
		"status_code", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	}

	// レート制限情報
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		fields = append(fields, "rate_limit_remaining", remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		fields = append(fields, "rate_limit_reset", reset)
	}
	if resp.Header.Get(cacheHeader) != "" {
		fields = append(fields, "from_cache", true)
	}

	if resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			rt.logger.Error("failed_to_read_response_body", "error", err.Error())
			resp.Body = io.NopCloser(bytes.NewReader(nil))
		} else {
			// ボディを再設定
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			preview := string(bodyBytes)
			if len(preview) > bodyPreviewLimit {
				preview = preview[:bodyPreviewLimit] + "..."
			}
			fields = append(fields, "body_preview", preview)
		}
	}

	rt.logger.Debug("github_api_response", fields...)
}

// maskAuthHeader はAuthorizationヘッダーの値をマスキングする
func maskAuthHeader(auth string) string {
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 {
		return fmt.Sprintf("%s [REDACTED]", parts[0])
	}
	return "[REDACTED]"
}
