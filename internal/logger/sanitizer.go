package logger

import (
	"regexp"
	"strings"
)

const masked = "***MASKED***"

// センシティブなキー（大文字小文字を区別しない）
var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"auth",
	"credential",
	"api_key",
	"apikey",
	"private_key",
	"client_secret",
	"installation_token",
}

type valuePattern struct {
	re     *regexp.Regexp
	prefix string
}

// センシティブな値のパターン。prefix はマスク後も残す部分
var sensitiveValuePatterns = []valuePattern{
	// Personal access tokens (classic / fine-grained)
	{regexp.MustCompile(`^ghp_[A-Za-z0-9]{36,}$`), "ghp_"},
	{regexp.MustCompile(`^github_pat_[A-Za-z0-9_]{22,}$`), "github_pat_"},
	// OAuth, user-to-server, server-to-server, refresh tokens
	{regexp.MustCompile(`^gho_[A-Za-z0-9]{36,}$`), "gho_"},
	{regexp.MustCompile(`^ghu_[A-Za-z0-9]{36,}$`), "ghu_"},
	{regexp.MustCompile(`^ghs_[A-Za-z0-9]{36,}$`), "ghs_"},
	{regexp.MustCompile(`^ghi_[A-Za-z0-9]{36,}$`), "ghi_"},
	{regexp.MustCompile(`^ghr_[A-Za-z0-9]{36,}$`), "ghr_"},
	// GitHub App の秘密鍵
	{regexp.MustCompile(`-----BEGIN (RSA )?PRIVATE KEY-----`), ""},
	// Authorization ヘッダー
	{regexp.MustCompile(`(?i)^Bearer\s+[A-Za-z0-9\-_\.]{20,}$`), "Bearer "},
	{regexp.MustCompile(`(?i)^token\s+[A-Za-z0-9\-_\.]{20,}$`), "token "},
}

// SanitizeValue は値がセンシティブならマスクする
func SanitizeValue(value interface{}) interface{} {
	if p, ok := matchValue(value); ok {
		return p.prefix + masked
	}
	return value
}

// SanitizeKeyValue はキーと値の組み合わせでマスクするか判定する
func SanitizeKeyValue(key string, value interface{}) (string, interface{}) {
	if p, ok := matchValue(value); ok {
		return key, p.prefix + masked
	}
	if isSensitiveKey(key) {
		return key, masked
	}
	return key, value
}

// SanitizeArgs はログ引数（key-valueペア）をサニタイズする
func SanitizeArgs(args ...interface{}) []interface{} {
	if len(args) == 0 {
		return args
	}

	sanitized := make([]interface{}, len(args))
	copy(sanitized, args)

	for i := 0; i+1 < len(sanitized); i += 2 {
		if key, ok := sanitized[i].(string); ok {
			_, sanitized[i+1] = SanitizeKeyValue(key, sanitized[i+1])
		}
	}
	return sanitized
}

// isSensitiveKey は完全一致か "_" 区切りの単語一致で判定する
// "authorization" のような値を既にマスク済みで持つキーもここで拾う
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	for _, k := range sensitiveKeys {
		if lowerKey == k ||
			strings.HasPrefix(lowerKey, k+"_") ||
			strings.HasSuffix(lowerKey, "_"+k) ||
			strings.Contains(lowerKey, "_"+k+"_") {
			return true
		}
	}
	return false
}

func matchValue(value interface{}) (valuePattern, bool) {
	str, ok := value.(string)
	if !ok || str == "" {
		return valuePattern{}, false
	}
	for _, p := range sensitiveValuePatterns {
		if p.re.MatchString(str) {
			return p, true
		}
	}
	return valuePattern{}, false
}
