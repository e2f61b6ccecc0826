package github

import (
	"context"
	"net/http"
)

// ProtectedBranchesManager handles branch protection endpoints under
// repos/{owner}/{repo}/branches/{branch}/protection.
type ProtectedBranchesManager service

// ProtectionRequest is the body of a full protection update. The four
// top-level settings are required by GitHub and are sent as null when unset.
type ProtectionRequest struct {
	RequiredStatusChecks           *RequiredStatusChecks                 `json:"required_status_checks"`
	EnforceAdmins                  bool                                  `json:"enforce_admins"`
	RequiredPullRequestReviews     *PullRequestReviewsEnforcementRequest `json:"required_pull_request_reviews"`
	Restrictions                   *BranchRestrictionsRequest            `json:"restrictions"`
	RequireLinearHistory           *bool                                 `json:"required_linear_history,omitempty"`
	AllowForcePushes               *bool                                 `json:"allow_force_pushes,omitempty"`
	AllowDeletions                 *bool                                 `json:"allow_deletions,omitempty"`
	RequiredConversationResolution *bool                                 `json:"required_conversation_resolution,omitempty"`
	LockBranch                     *bool                                 `json:"lock_branch,omitempty"`
}

// RequiredStatusChecksRequest is the PATCH body for required status checks.
type RequiredStatusChecksRequest struct {
	Strict   *bool         `json:"strict,omitempty"`
	Contexts []string      `json:"contexts,omitempty"`
	Checks   []StatusCheck `json:"checks,omitempty"`
}

// DismissalRestrictionsRequest lists who may dismiss reviews, by login/slug.
type DismissalRestrictionsRequest struct {
	Users *[]string `json:"users,omitempty"`
	Teams *[]string `json:"teams,omitempty"`
	Apps  *[]string `json:"apps,omitempty"`
}

// PullRequestReviewsEnforcementRequest is the review section of a full
// protection update.
type PullRequestReviewsEnforcementRequest struct {
	DismissalRestrictionsRequest *DismissalRestrictionsRequest `json:"dismissal_restrictions,omitempty"`
	DismissStaleReviews          bool                          `json:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews      bool                          `json:"require_code_owner_reviews"`
	RequiredApprovingReviewCount int                           `json:"required_approving_review_count"`
	RequireLastPushApproval      *bool                         `json:"require_last_push_approval,omitempty"`
}

// PullRequestReviewsEnforcementUpdate is the PATCH body for review enforcement.
type PullRequestReviewsEnforcementUpdate struct {
	DismissalRestrictionsRequest *DismissalRestrictionsRequest `json:"dismissal_restrictions,omitempty"`
	DismissStaleReviews          *bool                         `json:"dismiss_stale_reviews,omitempty"`
	RequireCodeOwnerReviews      *bool                         `json:"require_code_owner_reviews,omitempty"`
	RequiredApprovingReviewCount *int                          `json:"required_approving_review_count,omitempty"`
	RequireLastPushApproval      *bool                         `json:"require_last_push_approval,omitempty"`
}

// BranchRestrictionsRequest lists who may push, by login/slug.
type BranchRestrictionsRequest struct {
	Users []string `json:"users"`
	Teams []string `json:"teams"`
	Apps  []string `json:"apps,omitempty"`
}

func (m *ProtectedBranchesManager) path(owner, repo, branch string, rest ...string) (string, error) {
	if branch == "" {
		return "", requiredArg("branch")
	}
	return repoPath(owner, repo, append([]string{"branches", branch, "protection"}, rest...)...)
}

// Get fetches the protection of a branch.
func (m *ProtectedBranchesManager) Get(ctx context.Context, owner, repo, branch string) (*Protection, *Response, error) {
	path, err := m.path(owner, repo, branch)
	if err != nil {
		return nil, nil, err
	}

	p := new(Protection)
	resp, err := m.client.Get(ctx, path, nil, p)
	if err != nil {
		return nil, resp, err
	}
	return p, resp, nil
}

// IsProtected reports whether the branch has protection enabled. A 404 from
// GitHub ("Branch not protected") yields false without an error.
func (m *ProtectedBranchesManager) IsProtected(ctx context.Context, owner, repo, branch string) (bool, error) {
	_, _, err := m.Get(ctx, owner, repo, branch)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update replaces the protection of a branch.
func (m *ProtectedBranchesManager) Update(ctx context.Context, owner, repo, branch string, req *ProtectionRequest) (*Protection, *Response, error) {
	if req == nil {
		return nil, nil, requiredArg("protection request")
	}
	path, err := m.path(owner, repo, branch)
	if err != nil {
		return nil, nil, err
	}

	if r := req.Restrictions; r != nil {
		if r.Users == nil {
			r.Users = []string{}
		}
		if r.Teams == nil {
			r.Teams = []string{}
		}
	}

	p := new(Protection)
	resp, err := m.client.Put(ctx, path, req, p)
	if err != nil {
		return nil, resp, err
	}
	return p, resp, nil
}

// Remove deletes the protection of a branch.
func (m *ProtectedBranchesManager) Remove(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// GetRequiredStatusChecks fetches the required status checks.
func (m *ProtectedBranchesManager) GetRequiredStatusChecks(ctx context.Context, owner, repo, branch string) (*RequiredStatusChecks, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_status_checks")
	if err != nil {
		return nil, nil, err
	}

	checks := new(RequiredStatusChecks)
	resp, err := m.client.Get(ctx, path, nil, checks)
	if err != nil {
		return nil, resp, err
	}
	return checks, resp, nil
}

// UpdateRequiredStatusChecks patches the required status checks.
func (m *ProtectedBranchesManager) UpdateRequiredStatusChecks(ctx context.Context, owner, repo, branch string, req *RequiredStatusChecksRequest) (*RequiredStatusChecks, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_status_checks")
	if err != nil {
		return nil, nil, err
	}

	checks := new(RequiredStatusChecks)
	resp, err := m.client.Patch(ctx, path, req, checks)
	if err != nil {
		return nil, resp, err
	}
	return checks, resp, nil
}

// RemoveRequiredStatusChecks removes the required status checks.
func (m *ProtectedBranchesManager) RemoveRequiredStatusChecks(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch, "required_status_checks")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

type contextsRequest struct {
	Contexts []string `json:"contexts"`
}

// ListRequiredStatusChecksContexts lists the required check contexts.
func (m *ProtectedBranchesManager) ListRequiredStatusChecksContexts(ctx context.Context, owner, repo, branch string) ([]string, *Response, error) {
	return m.contexts(ctx, http.MethodGet, owner, repo, branch, nil)
}

// SetRequiredStatusChecksContexts replaces the required check contexts.
func (m *ProtectedBranchesManager) SetRequiredStatusChecksContexts(ctx context.Context, owner, repo, branch string, contexts []string) ([]string, *Response, error) {
	return m.contexts(ctx, http.MethodPut, owner, repo, branch, contexts)
}

// AddRequiredStatusChecksContexts appends required check contexts.
func (m *ProtectedBranchesManager) AddRequiredStatusChecksContexts(ctx context.Context, owner, repo, branch string, contexts []string) ([]string, *Response, error) {
	return m.contexts(ctx, http.MethodPost, owner, repo, branch, contexts)
}

// RemoveRequiredStatusChecksContexts removes required check contexts.
func (m *ProtectedBranchesManager) RemoveRequiredStatusChecksContexts(ctx context.Context, owner, repo, branch string, contexts []string) ([]string, *Response, error) {
	return m.contexts(ctx, http.MethodDelete, owner, repo, branch, contexts)
}

func (m *ProtectedBranchesManager) contexts(ctx context.Context, method, owner, repo, branch string, contexts []string) ([]string, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_status_checks", "contexts")
	if err != nil {
		return nil, nil, err
	}

	var body interface{}
	if method != http.MethodGet {
		if contexts == nil {
			contexts = []string{}
		}
		body = &contextsRequest{Contexts: contexts}
	}

	var out []string
	resp, err := m.client.send(ctx, method, path, nil, body, FormatTyped, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

// GetAdminEnforcement reports whether protection also applies to admins.
func (m *ProtectedBranchesManager) GetAdminEnforcement(ctx context.Context, owner, repo, branch string) (*AdminEnforcement, *Response, error) {
	path, err := m.path(owner, repo, branch, "enforce_admins")
	if err != nil {
		return nil, nil, err
	}

	ae := new(AdminEnforcement)
	resp, err := m.client.Get(ctx, path, nil, ae)
	if err != nil {
		return nil, resp, err
	}
	return ae, resp, nil
}

// SetAdminEnforcement applies protection to admins.
func (m *ProtectedBranchesManager) SetAdminEnforcement(ctx context.Context, owner, repo, branch string) (*AdminEnforcement, *Response, error) {
	path, err := m.path(owner, repo, branch, "enforce_admins")
	if err != nil {
		return nil, nil, err
	}

	ae := new(AdminEnforcement)
	resp, err := m.client.Post(ctx, path, nil, ae)
	if err != nil {
		return nil, resp, err
	}
	return ae, resp, nil
}

// RemoveAdminEnforcement lifts protection for admins.
func (m *ProtectedBranchesManager) RemoveAdminEnforcement(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch, "enforce_admins")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// GetRequiredPullRequestReviews fetches the review enforcement settings.
func (m *ProtectedBranchesManager) GetRequiredPullRequestReviews(ctx context.Context, owner, repo, branch string) (*PullRequestReviewsEnforcement, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_pull_request_reviews")
	if err != nil {
		return nil, nil, err
	}

	r := new(PullRequestReviewsEnforcement)
	resp, err := m.client.Get(ctx, path, nil, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// UpdateRequiredPullRequestReviews patches the review enforcement settings.
func (m *ProtectedBranchesManager) UpdateRequiredPullRequestReviews(ctx context.Context, owner, repo, branch string, req *PullRequestReviewsEnforcementUpdate) (*PullRequestReviewsEnforcement, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_pull_request_reviews")
	if err != nil {
		return nil, nil, err
	}

	r := new(PullRequestReviewsEnforcement)
	resp, err := m.client.Patch(ctx, path, req, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// RemoveRequiredPullRequestReviews removes the review requirement.
func (m *ProtectedBranchesManager) RemoveRequiredPullRequestReviews(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch, "required_pull_request_reviews")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// GetRequiredSignatures reports whether signed commits are required.
func (m *ProtectedBranchesManager) GetRequiredSignatures(ctx context.Context, owner, repo, branch string) (*SignaturesProtection, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_signatures")
	if err != nil {
		return nil, nil, err
	}

	s := new(SignaturesProtection)
	resp, err := m.client.Get(ctx, path, nil, s)
	if err != nil {
		return nil, resp, err
	}
	return s, resp, nil
}

// CreateRequiredSignatures requires signed commits.
func (m *ProtectedBranchesManager) CreateRequiredSignatures(ctx context.Context, owner, repo, branch string) (*SignaturesProtection, *Response, error) {
	path, err := m.path(owner, repo, branch, "required_signatures")
	if err != nil {
		return nil, nil, err
	}

	s := new(SignaturesProtection)
	resp, err := m.client.Post(ctx, path, nil, s)
	if err != nil {
		return nil, resp, err
	}
	return s, resp, nil
}

// RemoveRequiredSignatures stops requiring signed commits.
func (m *ProtectedBranchesManager) RemoveRequiredSignatures(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch, "required_signatures")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// GetRestrictions fetches who may push to the branch.
func (m *ProtectedBranchesManager) GetRestrictions(ctx context.Context, owner, repo, branch string) (*BranchRestrictions, *Response, error) {
	path, err := m.path(owner, repo, branch, "restrictions")
	if err != nil {
		return nil, nil, err
	}

	r := new(BranchRestrictions)
	resp, err := m.client.Get(ctx, path, nil, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// RemoveRestrictions lifts push restrictions.
func (m *ProtectedBranchesManager) RemoveRestrictions(ctx context.Context, owner, repo, branch string) (*Response, error) {
	path, err := m.path(owner, repo, branch, "restrictions")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// ListUserRestrictions lists users allowed to push.
func (m *ProtectedBranchesManager) ListUserRestrictions(ctx context.Context, owner, repo, branch string) ([]*User, *Response, error) {
	return restrictionCall[*User](ctx, m, http.MethodGet, owner, repo, branch, "users", nil)
}

// AddUserRestrictions grants push access to users.
func (m *ProtectedBranchesManager) AddUserRestrictions(ctx context.Context, owner, repo, branch string, users []string) ([]*User, *Response, error) {
	return restrictionCall[*User](ctx, m, http.MethodPost, owner, repo, branch, "users", users)
}

// SetUserRestrictions replaces the users allowed to push.
func (m *ProtectedBranchesManager) SetUserRestrictions(ctx context.Context, owner, repo, branch string, users []string) ([]*User, *Response, error) {
	return restrictionCall[*User](ctx, m, http.MethodPut, owner, repo, branch, "users", users)
}

// RemoveUserRestrictions revokes push access from users.
func (m *ProtectedBranchesManager) RemoveUserRestrictions(ctx context.Context, owner, repo, branch string, users []string) ([]*User, *Response, error) {
	return restrictionCall[*User](ctx, m, http.MethodDelete, owner, repo, branch, "users", users)
}

// ListTeamRestrictions lists teams allowed to push.
func (m *ProtectedBranchesManager) ListTeamRestrictions(ctx context.Context, owner, repo, branch string) ([]*Team, *Response, error) {
	return restrictionCall[*Team](ctx, m, http.MethodGet, owner, repo, branch, "teams", nil)
}

// AddTeamRestrictions grants push access to teams.
func (m *ProtectedBranchesManager) AddTeamRestrictions(ctx context.Context, owner, repo, branch string, teams []string) ([]*Team, *Response, error) {
	return restrictionCall[*Team](ctx, m, http.MethodPost, owner, repo, branch, "teams", teams)
}

// SetTeamRestrictions replaces the teams allowed to push.
func (m *ProtectedBranchesManager) SetTeamRestrictions(ctx context.Context, owner, repo, branch string, teams []string) ([]*Team, *Response, error) {
	return restrictionCall[*Team](ctx, m, http.MethodPut, owner, repo, branch, "teams", teams)
}

// RemoveTeamRestrictions revokes push access from teams.
func (m *ProtectedBranchesManager) RemoveTeamRestrictions(ctx context.Context, owner, repo, branch string, teams []string) ([]*Team, *Response, error) {
	return restrictionCall[*Team](ctx, m, http.MethodDelete, owner, repo, branch, "teams", teams)
}

// ListAppRestrictions lists apps allowed to push.
func (m *ProtectedBranchesManager) ListAppRestrictions(ctx context.Context, owner, repo, branch string) ([]*App, *Response, error) {
	return restrictionCall[*App](ctx, m, http.MethodGet, owner, repo, branch, "apps", nil)
}

// AddAppRestrictions grants push access to apps.
func (m *ProtectedBranchesManager) AddAppRestrictions(ctx context.Context, owner, repo, branch string, apps []string) ([]*App, *Response, error) {
	return restrictionCall[*App](ctx, m, http.MethodPost, owner, repo, branch, "apps", apps)
}

// SetAppRestrictions replaces the apps allowed to push.
func (m *ProtectedBranchesManager) SetAppRestrictions(ctx context.Context, owner, repo, branch string, apps []string) ([]*App, *Response, error) {
	return restrictionCall[*App](ctx, m, http.MethodPut, owner, repo, branch, "apps", apps)
}

// RemoveAppRestrictions revokes push access from apps.
func (m *ProtectedBranchesManager) RemoveAppRestrictions(ctx context.Context, owner, repo, branch string, apps []string) ([]*App, *Response, error) {
	return restrictionCall[*App](ctx, m, http.MethodDelete, owner, repo, branch, "apps", apps)
}

// restrictionCall serves the users/teams/apps restriction endpoints, which
// differ only in the last path segment, the body key and the element type.
func restrictionCall[T any](ctx context.Context, m *ProtectedBranchesManager, method, owner, repo, branch, kind string, names []string) ([]T, *Response, error) {
	path, err := m.path(owner, repo, branch, "restrictions", kind)
	if err != nil {
		return nil, nil, err
	}

	var body interface{}
	if method != http.MethodGet {
		if names == nil {
			names = []string{}
		}
		body = map[string][]string{kind: names}
	}

	var out []T
	resp, err := m.client.send(ctx, method, path, nil, body, FormatTyped, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}
