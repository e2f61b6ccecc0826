package github

import (
	"strings"
	"time"
)

// User represents a GitHub user.
type User struct {
	Login     *string `json:"login,omitempty"`
	ID        *int64  `json:"id,omitempty"`
	NodeID    *string `json:"node_id,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	HTMLURL   *string `json:"html_url,omitempty"`
	Type      *string `json:"type,omitempty"`
	SiteAdmin *bool   `json:"site_admin,omitempty"`
}

// GetLogin returns the Login field if it's non-nil, zero value otherwise.
func (u *User) GetLogin() string {
	if u == nil || u.Login == nil {
		return ""
	}
	return *u.Login
}

// Team represents a team within an organization.
type Team struct {
	ID          *int64  `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Privacy     *string `json:"privacy,omitempty"`
	Permission  *string `json:"permission,omitempty"`
	HTMLURL     *string `json:"html_url,omitempty"`
}

// App represents a GitHub App.
type App struct {
	ID      *int64  `json:"id,omitempty"`
	Slug    *string `json:"slug,omitempty"`
	Name    *string `json:"name,omitempty"`
	Owner   *User   `json:"owner,omitempty"`
	HTMLURL *string `json:"html_url,omitempty"`
}

// Repository represents a GitHub repository.
type Repository struct {
	ID            *int64     `json:"id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	FullName      *string    `json:"full_name,omitempty"`
	Owner         *User      `json:"owner,omitempty"`
	Private       *bool      `json:"private,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Fork          *bool      `json:"fork,omitempty"`
	Archived      *bool      `json:"archived,omitempty"`
	DefaultBranch *string    `json:"default_branch,omitempty"`
	HTMLURL       *string    `json:"html_url,omitempty"`
	CloneURL      *string    `json:"clone_url,omitempty"`
	SSHURL        *string    `json:"ssh_url,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
}

// OwnerAndName returns the owner login and repository name, falling back to
// FullName when the owner object is absent.
func (r *Repository) OwnerAndName() (string, string) {
	if r == nil {
		return "", ""
	}
	if r.Owner != nil && r.Owner.Login != nil && r.Name != nil {
		return *r.Owner.Login, *r.Name
	}
	if r.FullName != nil {
		if ref, err := ParseRepo(*r.FullName); err == nil {
			return ref.Owner, ref.Name
		}
	}
	return "", ""
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// String returns the "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepo parses "owner/name" (an optional https://github.com/ prefix and
// .git suffix are accepted).
func ParseRepo(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://github.com/")
	s = strings.TrimPrefix(s, "git@github.com:")
	s = strings.TrimSuffix(s, ".git")
	s = strings.Trim(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, &GitHubError{
			Type:    ErrorTypeValidation,
			Message: "invalid repository reference: " + s,
		}
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}

// Commit is the abbreviated commit object attached to branches.
type Commit struct {
	SHA *string `json:"sha,omitempty"`
	URL *string `json:"url,omitempty"`
}

// Branch represents a repository branch.
type Branch struct {
	Name      *string `json:"name,omitempty"`
	Commit    *Commit `json:"commit,omitempty"`
	Protected *bool   `json:"protected,omitempty"`
}

// GetName returns the Name field if it's non-nil, zero value otherwise.
func (b *Branch) GetName() string {
	if b == nil || b.Name == nil {
		return ""
	}
	return *b.Name
}

// Protection represents the protection settings of a branch.
type Protection struct {
	URL                            *string                        `json:"url,omitempty"`
	RequiredStatusChecks           *RequiredStatusChecks          `json:"required_status_checks,omitempty"`
	RequiredPullRequestReviews     *PullRequestReviewsEnforcement `json:"required_pull_request_reviews,omitempty"`
	EnforceAdmins                  *AdminEnforcement              `json:"enforce_admins,omitempty"`
	Restrictions                   *BranchRestrictions            `json:"restrictions,omitempty"`
	RequiredSignatures             *SignaturesProtection          `json:"required_signatures,omitempty"`
	RequireLinearHistory           *EnabledSetting                `json:"required_linear_history,omitempty"`
	AllowForcePushes               *EnabledSetting                `json:"allow_force_pushes,omitempty"`
	AllowDeletions                 *EnabledSetting                `json:"allow_deletions,omitempty"`
	RequiredConversationResolution *EnabledSetting                `json:"required_conversation_resolution,omitempty"`
	LockBranch                     *EnabledSetting                `json:"lock_branch,omitempty"`
}

// EnabledSetting is the {"enabled": bool} shape GitHub uses for toggles.
type EnabledSetting struct {
	Enabled bool `json:"enabled"`
}

// StatusCheck is a single required check.
type StatusCheck struct {
	Context string `json:"context"`
	AppID   *int64 `json:"app_id,omitempty"`
}

// RequiredStatusChecks represents the status checks required before merging.
type RequiredStatusChecks struct {
	URL         *string       `json:"url,omitempty"`
	Strict      bool          `json:"strict"`
	Contexts    []string      `json:"contexts"`
	Checks      []StatusCheck `json:"checks,omitempty"`
	ContextsURL *string       `json:"contexts_url,omitempty"`
}

// AdminEnforcement represents whether protection also applies to admins.
type AdminEnforcement struct {
	URL     *string `json:"url,omitempty"`
	Enabled bool    `json:"enabled"`
}

// DismissalRestrictions lists who may dismiss pull request reviews.
type DismissalRestrictions struct {
	Users []*User `json:"users,omitempty"`
	Teams []*Team `json:"teams,omitempty"`
	Apps  []*App  `json:"apps,omitempty"`
}

// PullRequestReviewsEnforcement represents the review requirements.
type PullRequestReviewsEnforcement struct {
	URL                          *string                `json:"url,omitempty"`
	DismissalRestrictions        *DismissalRestrictions `json:"dismissal_restrictions,omitempty"`
	DismissStaleReviews          bool                   `json:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews      bool                   `json:"require_code_owner_reviews"`
	RequiredApprovingReviewCount int                    `json:"required_approving_review_count"`
	RequireLastPushApproval      bool                   `json:"require_last_push_approval"`
}

// SignaturesProtection represents the commit signature requirement.
type SignaturesProtection struct {
	URL     *string `json:"url,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// BranchRestrictions lists who may push to a protected branch.
type BranchRestrictions struct {
	URL   *string `json:"url,omitempty"`
	Users []*User `json:"users"`
	Teams []*Team `json:"teams"`
	Apps  []*App  `json:"apps"`
}

// Label represents a GitHub label.
type Label struct {
	ID          *int64  `json:"id,omitempty"`
	NodeID      *string `json:"node_id,omitempty"`
	URL         *string `json:"url,omitempty"`
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	Default     *bool   `json:"default,omitempty"`
}

// GetName returns the Name field if it's non-nil, zero value otherwise.
func (l *Label) GetName() string {
	if l == nil || l.Name == nil {
		return ""
	}
	return *l.Name
}

// Milestone represents a GitHub milestone.
type Milestone struct {
	ID           *int64     `json:"id,omitempty"`
	Number       *int       `json:"number,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	State        *string    `json:"state,omitempty"`
	Creator      *User      `json:"creator,omitempty"`
	OpenIssues   *int       `json:"open_issues,omitempty"`
	ClosedIssues *int       `json:"closed_issues,omitempty"`
	HTMLURL      *string    `json:"html_url,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	DueOn        *time.Time `json:"due_on,omitempty"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// GetNumber returns the Number field if it's non-nil, zero value otherwise.
func (m *Milestone) GetNumber() int {
	if m == nil || m.Number == nil {
		return 0
	}
	return *m.Number
}

// HookConfig is the delivery configuration of a webhook.
type HookConfig struct {
	URL         *string `json:"url,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	Secret      *string `json:"secret,omitempty"`
	InsecureSSL *string `json:"insecure_ssl,omitempty"`
}

// Hook represents a repository or organization webhook.
type Hook struct {
	ID        *int64      `json:"id,omitempty"`
	Type      *string     `json:"type,omitempty"`
	Name      *string     `json:"name,omitempty"`
	Active    *bool       `json:"active,omitempty"`
	Events    []string    `json:"events,omitempty"`
	Config    *HookConfig `json:"config,omitempty"`
	URL       *string     `json:"url,omitempty"`
	PingURL   *string     `json:"ping_url,omitempty"`
	TestURL   *string     `json:"test_url,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// GetID returns the ID field if it's non-nil, zero value otherwise.
func (h *Hook) GetID() int64 {
	if h == nil || h.ID == nil {
		return 0
	}
	return *h.ID
}

// HookDelivery is one delivery attempt of a webhook.
type HookDelivery struct {
	ID          *int64     `json:"id,omitempty"`
	GUID        *string    `json:"guid,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Redelivery  *bool      `json:"redelivery,omitempty"`
	Duration    *float64   `json:"duration,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StatusCode  *int       `json:"status_code,omitempty"`
	Event       *string    `json:"event,omitempty"`
	Action      *string    `json:"action,omitempty"`
}

// GitObject is the object a reference points at.
type GitObject struct {
	Type *string `json:"type,omitempty"`
	SHA  *string `json:"sha,omitempty"`
	URL  *string `json:"url,omitempty"`
}

// Reference represents a git reference.
type Reference struct {
	Ref    *string    `json:"ref,omitempty"`
	NodeID *string    `json:"node_id,omitempty"`
	URL    *string    `json:"url,omitempty"`
	Object *GitObject `json:"object,omitempty"`
}

// Issue represents a GitHub issue.
type Issue struct {
	ID        *int64     `json:"id,omitempty"`
	Number    *int       `json:"number,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Body      *string    `json:"body,omitempty"`
	State     *string    `json:"state,omitempty"`
	Locked    *bool      `json:"locked,omitempty"`
	User      *User      `json:"user,omitempty"`
	Labels    []*Label   `json:"labels,omitempty"`
	Assignee  *User      `json:"assignee,omitempty"`
	Assignees []*User    `json:"assignees,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
	Comments  *int       `json:"comments,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	HTMLURL   *string    `json:"html_url,omitempty"`
}

// GetNumber returns the Number field if it's non-nil, zero value otherwise.
func (i *Issue) GetNumber() int {
	if i == nil || i.Number == nil {
		return 0
	}
	return *i.Number
}

// HasLabel reports whether the issue carries the named label.
func (i *Issue) HasLabel(name string) bool {
	if i == nil {
		return false
	}
	for _, l := range i.Labels {
		if l.GetName() == name {
			return true
		}
	}
	return false
}

// IssueComment represents a comment on a GitHub issue.
type IssueComment struct {
	ID        *int64     `json:"id,omitempty"`
	Body      *string    `json:"body,omitempty"`
	User      *User      `json:"user,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	HTMLURL   *string    `json:"html_url,omitempty"`
}

// RateLimits represents the rate limits for different GitHub API categories.
type RateLimits struct {
	Core                      *RateLimit `json:"core,omitempty"`
	Search                    *RateLimit `json:"search,omitempty"`
	GraphQL                   *RateLimit `json:"graphql,omitempty"`
	IntegrationManifest       *RateLimit `json:"integration_manifest,omitempty"`
	ActionsRunnerRegistration *RateLimit `json:"actions_runner_registration,omitempty"`
}

// RateLimit represents the rate limit for a specific GitHub API category.
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Used      int   `json:"used"`
	Reset     int64 `json:"reset"`
}

// ResetTime converts the epoch seconds in Reset to a time.Time.
func (r *RateLimit) ResetTime() time.Time {
	if r == nil {
		return time.Time{}
	}
	return time.Unix(r.Reset, 0)
}

// ListOptions specifies optional parameters to methods that support pagination.
type ListOptions struct {
	Page    int `url:"page,omitempty"`
	PerPage int `url:"per_page,omitempty"`
}

// Helper functions for creating pointers to basic types

// String returns a pointer to the given string value.
func String(v string) *string {
	return &v
}

// Int returns a pointer to the given int value.
func Int(v int) *int {
	return &v
}

// Int64 returns a pointer to the given int64 value.
func Int64(v int64) *int64 {
	return &v
}

// Bool returns a pointer to the given bool value.
func Bool(v bool) *bool {
	return &v
}
