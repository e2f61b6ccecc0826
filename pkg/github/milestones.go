package github

import (
	"context"
	"strconv"
	"time"
)

// MilestonesManager handles repository milestones.
type MilestonesManager service

// MilestoneListOptions specifies optional parameters to MilestonesManager.List.
type MilestoneListOptions struct {
	// State filters by state: open (default), closed or all.
	State string `url:"state,omitempty"`
	// Sort is due_on (default) or completeness.
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`
	ListOptions
}

// MilestoneRequest is the body for creating or updating a milestone.
type MilestoneRequest struct {
	Title       *string    `json:"title,omitempty"`
	State       *string    `json:"state,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueOn       *time.Time `json:"due_on,omitempty"`
}

func milestonePath(owner, repo string, number int) (string, error) {
	if number <= 0 {
		return "", requiredArg("milestone number")
	}
	return repoPath(owner, repo, "milestones", strconv.Itoa(number))
}

// List lists the milestones of a repository.
func (m *MilestonesManager) List(ctx context.Context, owner, repo string, opts *MilestoneListOptions) ([]*Milestone, *Response, error) {
	path, err := repoPath(owner, repo, "milestones")
	if err != nil {
		return nil, nil, err
	}

	var milestones []*Milestone
	resp, err := m.client.Get(ctx, path, opts, &milestones)
	if err != nil {
		return nil, resp, err
	}
	return milestones, resp, nil
}

// Get fetches a milestone by number.
func (m *MilestonesManager) Get(ctx context.Context, owner, repo string, number int) (*Milestone, *Response, error) {
	path, err := milestonePath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	ms := new(Milestone)
	resp, err := m.client.Get(ctx, path, nil, ms)
	if err != nil {
		return nil, resp, err
	}
	return ms, resp, nil
}

// Create creates a milestone. Title is required.
func (m *MilestonesManager) Create(ctx context.Context, owner, repo string, req *MilestoneRequest) (*Milestone, *Response, error) {
	if req == nil || req.Title == nil || *req.Title == "" {
		return nil, nil, requiredArg("milestone title")
	}
	path, err := repoPath(owner, repo, "milestones")
	if err != nil {
		return nil, nil, err
	}

	ms := new(Milestone)
	resp, err := m.client.Post(ctx, path, req, ms)
	if err != nil {
		return nil, resp, err
	}
	return ms, resp, nil
}

// Update edits a milestone.
func (m *MilestonesManager) Update(ctx context.Context, owner, repo string, number int, req *MilestoneRequest) (*Milestone, *Response, error) {
	if req == nil {
		return nil, nil, requiredArg("milestone request")
	}
	path, err := milestonePath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	ms := new(Milestone)
	resp, err := m.client.Patch(ctx, path, req, ms)
	if err != nil {
		return nil, resp, err
	}
	return ms, resp, nil
}

// Close is Update with state=closed.
func (m *MilestonesManager) Close(ctx context.Context, owner, repo string, number int) (*Milestone, *Response, error) {
	return m.Update(ctx, owner, repo, number, &MilestoneRequest{State: String("closed")})
}

// Delete deletes a milestone.
func (m *MilestonesManager) Delete(ctx context.Context, owner, repo string, number int) (*Response, error) {
	path, err := milestonePath(owner, repo, number)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}
