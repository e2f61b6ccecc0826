package github

import (
	"context"
)

// BranchesManager handles the repository branch endpoints.
type BranchesManager service

// BranchListOptions specifies optional parameters to BranchesManager.List.
type BranchListOptions struct {
	Protected *bool `url:"protected,omitempty"`
	ListOptions
}

// List lists the branches of a repository.
func (m *BranchesManager) List(ctx context.Context, owner, repo string, opts *BranchListOptions) ([]*Branch, *Response, error) {
	path, err := repoPath(owner, repo, "branches")
	if err != nil {
		return nil, nil, err
	}

	var branches []*Branch
	resp, err := m.client.Get(ctx, path, opts, &branches)
	if err != nil {
		return nil, resp, err
	}
	return branches, resp, nil
}

// ListAll walks every page of List.
func (m *BranchesManager) ListAll(ctx context.Context, owner, repo string) ([]*Branch, error) {
	return listAll(ctx, func(page int) ([]*Branch, *Response, error) {
		return m.List(ctx, owner, repo, &BranchListOptions{
			ListOptions: ListOptions{Page: page, PerPage: defaultPerPage},
		})
	})
}

// Get fetches a single branch.
func (m *BranchesManager) Get(ctx context.Context, owner, repo, branch string) (*Branch, *Response, error) {
	if branch == "" {
		return nil, nil, requiredArg("branch")
	}
	path, err := repoPath(owner, repo, "branches", branch)
	if err != nil {
		return nil, nil, err
	}

	b := new(Branch)
	resp, err := m.client.Get(ctx, path, nil, b)
	if err != nil {
		return nil, resp, err
	}
	return b, resp, nil
}

// Rename renames a branch and returns the renamed branch.
func (m *BranchesManager) Rename(ctx context.Context, owner, repo, branch, newName string) (*Branch, *Response, error) {
	if branch == "" {
		return nil, nil, requiredArg("branch")
	}
	if newName == "" {
		return nil, nil, requiredArg("new name")
	}
	path, err := repoPath(owner, repo, "branches", branch, "rename")
	if err != nil {
		return nil, nil, err
	}

	body := struct {
		NewName string `json:"new_name"`
	}{NewName: newName}

	b := new(Branch)
	resp, err := m.client.Post(ctx, path, body, b)
	if err != nil {
		return nil, resp, err
	}
	return b, resp, nil
}
