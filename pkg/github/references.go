package github

import (
	"context"
	"strings"
)

// ReferencesManager handles git references (branches and tags as refs).
type ReferencesManager service

// ReferenceRequest is the body for creating a reference.
type ReferenceRequest struct {
	Ref *string `json:"ref"`
	SHA *string `json:"sha"`
}

type updateReferenceRequest struct {
	SHA   *string `json:"sha"`
	Force *bool   `json:"force,omitempty"`
}

// trimRef removes the leading "refs/" so "refs/heads/main" and "heads/main"
// address the same reference.
func trimRef(ref string) string {
	ref = strings.Trim(ref, "/")
	if ref == "refs" {
		return ""
	}
	return strings.TrimPrefix(ref, "refs/")
}

// refSegments splits a ref into its components so each one is escaped on
// its own and the slashes between them survive.
func refSegments(ref string) []string {
	return strings.Split(trimRef(ref), "/")
}

func (m *ReferencesManager) path(owner, repo, kind, ref string) (string, error) {
	if trimRef(ref) == "" {
		return "", requiredArg("ref")
	}
	return repoPath(owner, repo, append([]string{"git", kind}, refSegments(ref)...)...)
}

// List lists the references matching a namespace such as "heads" or
// "tags/v1". An empty namespace lists every reference.
func (m *ReferencesManager) List(ctx context.Context, owner, repo, namespace string, opts *ListOptions) ([]*Reference, *Response, error) {
	var (
		path string
		err  error
	)
	if trimRef(namespace) == "" {
		path, err = repoPath(owner, repo, "git", "matching-refs", "")
	} else {
		path, err = m.path(owner, repo, "matching-refs", namespace)
	}
	if err != nil {
		return nil, nil, err
	}

	var refs []*Reference
	resp, err := m.client.Get(ctx, path, opts, &refs)
	if err != nil {
		return nil, resp, err
	}
	return refs, resp, nil
}

// Get fetches a single reference, e.g. "heads/main".
func (m *ReferencesManager) Get(ctx context.Context, owner, repo, ref string) (*Reference, *Response, error) {
	path, err := m.path(owner, repo, "ref", ref)
	if err != nil {
		return nil, nil, err
	}

	r := new(Reference)
	resp, err := m.client.Get(ctx, path, nil, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// Create creates a reference pointing at sha. The ref is sent fully
// qualified ("refs/heads/...").
func (m *ReferencesManager) Create(ctx context.Context, owner, repo, ref, sha string) (*Reference, *Response, error) {
	if trimRef(ref) == "" {
		return nil, nil, requiredArg("ref")
	}
	if sha == "" {
		return nil, nil, requiredArg("sha")
	}
	path, err := repoPath(owner, repo, "git", "refs")
	if err != nil {
		return nil, nil, err
	}

	body := &ReferenceRequest{
		Ref: String("refs/" + trimRef(ref)),
		SHA: String(sha),
	}
	r := new(Reference)
	resp, err := m.client.Post(ctx, path, body, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// CreateBranch creates refs/heads/{branch} at sha.
func (m *ReferencesManager) CreateBranch(ctx context.Context, owner, repo, branch, sha string) (*Reference, *Response, error) {
	if branch == "" {
		return nil, nil, requiredArg("branch")
	}
	return m.Create(ctx, owner, repo, "heads/"+branch, sha)
}

// Update moves a reference to sha. force allows non fast-forward updates.
func (m *ReferencesManager) Update(ctx context.Context, owner, repo, ref, sha string, force bool) (*Reference, *Response, error) {
	if sha == "" {
		return nil, nil, requiredArg("sha")
	}
	path, err := m.path(owner, repo, "refs", ref)
	if err != nil {
		return nil, nil, err
	}

	body := &updateReferenceRequest{SHA: String(sha)}
	if force {
		body.Force = Bool(true)
	}
	r := new(Reference)
	resp, err := m.client.Patch(ctx, path, body, r)
	if err != nil {
		return nil, resp, err
	}
	return r, resp, nil
}

// Delete deletes a reference.
func (m *ReferencesManager) Delete(ctx context.Context, owner, repo, ref string) (*Response, error) {
	path, err := m.path(owner, repo, "refs", ref)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}
