package github

import (
	"context"
	"strconv"
	"time"
)

// IssuesManager handles repository issues.
type IssuesManager service

// IssueListOptions specifies optional parameters to IssuesManager.List.
type IssueListOptions struct {
	// State is open (default), closed or all.
	State     string     `url:"state,omitempty"`
	Labels    []string   `url:"labels,comma,omitempty"`
	Milestone string     `url:"milestone,omitempty"`
	Assignee  string     `url:"assignee,omitempty"`
	Sort      string     `url:"sort,omitempty"`
	Direction string     `url:"direction,omitempty"`
	Since     *time.Time `url:"since,omitempty"`
	ListOptions
}

// IssueRequest is the body for creating or editing an issue.
type IssueRequest struct {
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	State     *string   `json:"state,omitempty"`
	Labels    *[]string `json:"labels,omitempty"`
	Assignees *[]string `json:"assignees,omitempty"`
	Milestone *int      `json:"milestone,omitempty"`
}

type lockRequest struct {
	LockReason string `json:"lock_reason,omitempty"`
}

func issuePath(owner, repo string, number int, rest ...string) (string, error) {
	if number <= 0 {
		return "", requiredArg("issue number")
	}
	return repoPath(owner, repo, append([]string{"issues", strconv.Itoa(number)}, rest...)...)
}

// List lists the issues of a repository. GitHub includes pull requests.
func (m *IssuesManager) List(ctx context.Context, owner, repo string, opts *IssueListOptions) ([]*Issue, *Response, error) {
	path, err := repoPath(owner, repo, "issues")
	if err != nil {
		return nil, nil, err
	}

	var issues []*Issue
	resp, err := m.client.Get(ctx, path, opts, &issues)
	if err != nil {
		return nil, resp, err
	}
	return issues, resp, nil
}

// ListByLabels は指定されたラベルをすべて持つオープンなIssueを全ページ分取得する
func (m *IssuesManager) ListByLabels(ctx context.Context, owner, repo string, labels []string) ([]*Issue, error) {
	return listAll(ctx, func(page int) ([]*Issue, *Response, error) {
		return m.List(ctx, owner, repo, &IssueListOptions{
			State:       "open",
			Labels:      labels,
			ListOptions: ListOptions{Page: page, PerPage: defaultPerPage},
		})
	})
}

// Get fetches an issue.
func (m *IssuesManager) Get(ctx context.Context, owner, repo string, number int) (*Issue, *Response, error) {
	path, err := issuePath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	issue := new(Issue)
	resp, err := m.client.Get(ctx, path, nil, issue)
	if err != nil {
		return nil, resp, err
	}
	return issue, resp, nil
}

// Create opens an issue. Title is required.
func (m *IssuesManager) Create(ctx context.Context, owner, repo string, req *IssueRequest) (*Issue, *Response, error) {
	if req == nil || req.Title == nil || *req.Title == "" {
		return nil, nil, requiredArg("issue title")
	}
	path, err := repoPath(owner, repo, "issues")
	if err != nil {
		return nil, nil, err
	}

	issue := new(Issue)
	resp, err := m.client.Post(ctx, path, req, issue)
	if err != nil {
		return nil, resp, err
	}
	return issue, resp, nil
}

// Edit updates an issue.
func (m *IssuesManager) Edit(ctx context.Context, owner, repo string, number int, req *IssueRequest) (*Issue, *Response, error) {
	if req == nil {
		return nil, nil, requiredArg("issue request")
	}
	path, err := issuePath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	issue := new(Issue)
	resp, err := m.client.Patch(ctx, path, req, issue)
	if err != nil {
		return nil, resp, err
	}
	return issue, resp, nil
}

// Lock locks the conversation of an issue. reason may be empty or one of
// off-topic, too heated, resolved, spam.
func (m *IssuesManager) Lock(ctx context.Context, owner, repo string, number int, reason string) (*Response, error) {
	path, err := issuePath(owner, repo, number, "lock")
	if err != nil {
		return nil, err
	}
	var body interface{}
	if reason != "" {
		body = &lockRequest{LockReason: reason}
	}
	return m.client.Put(ctx, path, body, nil)
}

// Unlock unlocks the conversation of an issue.
func (m *IssuesManager) Unlock(ctx context.Context, owner, repo string, number int) (*Response, error) {
	path, err := issuePath(owner, repo, number, "lock")
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}
