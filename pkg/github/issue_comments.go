package github

import (
	"context"
	"strconv"
	"time"
)

// IssueCommentsManager handles comments on issues and pull requests.
type IssueCommentsManager service

// IssueCommentListOptions specifies optional parameters to IssueCommentsManager.List.
type IssueCommentListOptions struct {
	Since *time.Time `url:"since,omitempty"`
	ListOptions
}

type issueCommentRequest struct {
	Body string `json:"body"`
}

// List lists the comments on an issue.
func (m *IssueCommentsManager) List(ctx context.Context, owner, repo string, number int, opts *IssueCommentListOptions) ([]*IssueComment, *Response, error) {
	if number <= 0 {
		return nil, nil, requiredArg("issue number")
	}
	path, err := repoPath(owner, repo, "issues", strconv.Itoa(number), "comments")
	if err != nil {
		return nil, nil, err
	}

	var comments []*IssueComment
	resp, err := m.client.Get(ctx, path, opts, &comments)
	if err != nil {
		return nil, resp, err
	}
	return comments, resp, nil
}

// Create adds a comment to an issue.
func (m *IssueCommentsManager) Create(ctx context.Context, owner, repo string, number int, body string) (*IssueComment, *Response, error) {
	if number <= 0 {
		return nil, nil, requiredArg("issue number")
	}
	if body == "" {
		return nil, nil, requiredArg("comment body")
	}
	path, err := repoPath(owner, repo, "issues", strconv.Itoa(number), "comments")
	if err != nil {
		return nil, nil, err
	}

	comment := new(IssueComment)
	resp, err := m.client.Post(ctx, path, &issueCommentRequest{Body: body}, comment)
	if err != nil {
		return nil, resp, err
	}
	return comment, resp, nil
}

// Update replaces the body of a comment.
func (m *IssueCommentsManager) Update(ctx context.Context, owner, repo string, id int64, body string) (*IssueComment, *Response, error) {
	if id <= 0 {
		return nil, nil, requiredArg("comment id")
	}
	if body == "" {
		return nil, nil, requiredArg("comment body")
	}
	path, err := repoPath(owner, repo, "issues", "comments", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, nil, err
	}

	comment := new(IssueComment)
	resp, err := m.client.Patch(ctx, path, &issueCommentRequest{Body: body}, comment)
	if err != nil {
		return nil, resp, err
	}
	return comment, resp, nil
}

// Delete deletes a comment.
func (m *IssueCommentsManager) Delete(ctx context.Context, owner, repo string, id int64) (*Response, error) {
	if id <= 0 {
		return nil, requiredArg("comment id")
	}
	path, err := repoPath(owner, repo, "issues", "comments", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}
