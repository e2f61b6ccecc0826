package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL はGitHub REST APIのエンドポイント
	DefaultBaseURL   = "https://api.github.com/"
	defaultUserAgent = "ghkit"
	defaultPerPage   = 100
)

// Client はGitHub REST APIクライアント
// 各Managerはリソース固有のパスを組み立て、Clientのリクエスト層に委譲する
type Client struct {
	github *gh.Client
	logger Logger
	retry  RetryStrategy

	Branches          *BranchesManager
	ProtectedBranches *ProtectedBranchesManager
	Labels            *LabelsManager
	Milestones        *MilestonesManager
	Hooks             *HooksManager
	OrgHooks          *OrgHooksManager
	References        *ReferencesManager
	Repositories      *RepositoriesManager
	Issues            *IssuesManager
	IssueComments     *IssueCommentsManager
}

// service は各Managerの共通部分
type service struct {
	client *Client
}

type options struct {
	baseURL         string
	userAgent       string
	httpClient      *http.Client
	logger          Logger
	requestsPerHour int
	retry           RetryStrategy
	cache           ResponseCache
	timeout         time.Duration
}

// Option はクライアントの設定オプション
type Option func(*options)

// WithBaseURL はAPIのベースURLを設定する（GitHub Enterprise Server向け）
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithUserAgent はUser-Agentヘッダーを設定する
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient はベースとなるHTTPクライアントを設定する
// Transportは認証・ログ等のラウンドトリッパーの最下層として使われる
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger はロガーを設定する
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRateLimit は1時間あたりのリクエスト上限を設定する（0で無効）
func WithRateLimit(requestsPerHour int) Option {
	return func(o *options) {
		o.requestsPerHour = requestsPerHour
	}
}

// WithRetryStrategy はリトライ戦略を設定する
func WithRetryStrategy(s RetryStrategy) Option {
	return func(o *options) {
		o.retry = s
	}
}

// WithCache は条件付きリクエスト用のレスポンスキャッシュを設定する
func WithCache(c ResponseCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithTimeout はHTTPクライアントのタイムアウトを設定する
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// NewClient はパーソナルアクセストークンで認証するクライアントを作成する
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return NewClientWithTokenSource(ts, opts...)
}

// NewClientWithTokenSource は任意のトークンソースで認証するクライアントを作成する
// GitHub Appのインストールトークンはこちらを使う
func NewClientWithTokenSource(ts oauth2.TokenSource, opts ...Option) (*Client, error) {
	if ts == nil {
		return nil, errors.New("token source is required")
	}

	o := &options{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		logger:    noopLogger{},
		retry:     DefaultRetryStrategy(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = noopLogger{}
	}

	baseURL, err := parseBaseURL(o.baseURL)
	if err != nil {
		return nil, err
	}

	var base http.RoundTripper = http.DefaultTransport
	timeout := o.timeout
	if o.httpClient != nil {
		if o.httpClient.Transport != nil {
			base = o.httpClient.Transport
		}
		if timeout == 0 {
			timeout = o.httpClient.Timeout
		}
	}

	// oauth2 -> rate limit -> cache -> logging -> base の順にリクエストが流れる
	var rt http.RoundTripper = &loggingRoundTripper{base: base, logger: o.logger}
	if o.cache != nil {
		rt = &cacheRoundTripper{base: rt, cache: o.cache, logger: o.logger}
	}
	if o.requestsPerHour > 0 {
		rt = &rateLimitRoundTripper{base: rt, limiter: newRateLimiter(o.requestsPerHour)}
	}
	rt = &oauth2.Transport{Source: ts, Base: rt}

	ghClient := gh.NewClient(&http.Client{Transport: rt, Timeout: timeout})
	ghClient.BaseURL = baseURL
	ghClient.UserAgent = o.userAgent

	c := &Client{
		github: ghClient,
		logger: o.logger,
		retry:  o.retry,
	}
	common := service{client: c}
	c.Branches = (*BranchesManager)(&common)
	c.ProtectedBranches = (*ProtectedBranchesManager)(&common)
	c.Labels = (*LabelsManager)(&common)
	c.Milestones = (*MilestonesManager)(&common)
	c.Hooks = &HooksManager{hooks: hooks{client: c}}
	c.OrgHooks = &OrgHooksManager{hooks: hooks{client: c}}
	c.References = (*ReferencesManager)(&common)
	c.Repositories = (*RepositoriesManager)(&common)
	c.Issues = (*IssuesManager)(&common)
	c.IssueComments = (*IssueCommentsManager)(&common)

	return c, nil
}

// BaseURL はAPIのベースURLを返す
func (c *Client) BaseURL() string {
	return c.github.BaseURL.String()
}

// parseBaseURL はベースURLを解析する。go-githubは末尾のスラッシュを要求する
func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &GitHubError{
			Type:        ErrorTypeValidation,
			Message:     "invalid base URL: " + raw,
			OriginalErr: err,
		}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &GitHubError{
			Type:    ErrorTypeValidation,
			Message: "invalid base URL: " + raw,
		}
	}
	return u, nil
}

// RateLimits はGitHub APIのレート制限情報を取得する
func (c *Client) RateLimits(ctx context.Context) (*RateLimits, *Response, error) {
	var body struct {
		Resources *RateLimits `json:"resources"`
	}
	resp, err := c.Get(ctx, "rate_limit", nil, &body)
	if err != nil {
		return nil, resp, err
	}
	return body.Resources, resp, nil
}
