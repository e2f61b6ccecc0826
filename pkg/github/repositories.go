package github

import "context"

// RepositoriesManager handles repository metadata.
type RepositoriesManager service

// RepositoryListOptions specifies optional parameters to RepositoriesManager.ListByOrg.
type RepositoryListOptions struct {
	// Type is all, public, private, forks, sources or member.
	Type      string `url:"type,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`
	ListOptions
}

// Get fetches a repository.
func (m *RepositoriesManager) Get(ctx context.Context, owner, repo string) (*Repository, *Response, error) {
	path, err := repoPath(owner, repo)
	if err != nil {
		return nil, nil, err
	}

	r := new(Repository)
	resp, err := m.client.Get(ctx, path, nil, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// ListByOrg lists the repositories of an organization.
func (m *RepositoriesManager) ListByOrg(ctx context.Context, org string, opts *RepositoryListOptions) ([]*Repository, *Response, error) {
	if org == "" {
		return nil, nil, requiredArg("org")
	}

	var repos []*Repository
	resp, err := m.client.Get(ctx, buildPath("orgs", org, "repos"), opts, &repos)
	if err != nil {
		return nil, resp, err
	}
	return repos, resp, nil
}
