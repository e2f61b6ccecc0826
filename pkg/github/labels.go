package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LabelsManager handles repository labels and the labels attached to issues.
type LabelsManager service

// LabelDefinition defines a GitHub label with its properties
type LabelDefinition struct {
	Name        string `mapstructure:"name" json:"name"`
	Color       string `mapstructure:"color" json:"color"`
	Description string `mapstructure:"description" json:"description"`
}

// LabelRequest is the body for creating or updating a label. Color is a hex
// value without the leading '#'.
type LabelRequest struct {
	Name        *string `json:"name,omitempty"`
	NewName     *string `json:"new_name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TransitionInfo contains information about a label transition
type TransitionInfo struct {
	From string // The label that was removed
	To   string // The label that was added
}

// ensureExistConcurrency bounds parallel label creation.
const ensureExistConcurrency = 4

func normalizeColor(c *string) *string {
	if c == nil {
		return nil
	}
	return String(strings.TrimPrefix(*c, "#"))
}

// List lists the labels of a repository.
func (m *LabelsManager) List(ctx context.Context, owner, repo string, opts *ListOptions) ([]*Label, *Response, error) {
	path, err := repoPath(owner, repo, "labels")
	if err != nil {
		return nil, nil, err
	}

	var labels []*Label
	resp, err := m.client.Get(ctx, path, opts, &labels)
	if err != nil {
		return nil, resp, err
	}
	return labels, resp, nil
}

// ListAll walks every page of List.
func (m *LabelsManager) ListAll(ctx context.Context, owner, repo string) ([]*Label, error) {
	return listAll(ctx, func(page int) ([]*Label, *Response, error) {
		return m.List(ctx, owner, repo, &ListOptions{Page: page, PerPage: defaultPerPage})
	})
}

// Get fetches a label by name.
func (m *LabelsManager) Get(ctx context.Context, owner, repo, name string) (*Label, *Response, error) {
	if name == "" {
		return nil, nil, requiredArg("label name")
	}
	path, err := repoPath(owner, repo, "labels", name)
	if err != nil {
		return nil, nil, err
	}

	label := new(Label)
	resp, err := m.client.Get(ctx, path, nil, label)
	if err != nil {
		return nil, resp, err
	}
	return label, resp, nil
}

// Exists reports whether a label exists. A 404 yields false without an error.
func (m *LabelsManager) Exists(ctx context.Context, owner, repo, name string) (bool, error) {
	_, _, err := m.Get(ctx, owner, repo, name)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create creates a label.
func (m *LabelsManager) Create(ctx context.Context, owner, repo string, req *LabelRequest) (*Label, *Response, error) {
	if req == nil || req.Name == nil || *req.Name == "" {
		return nil, nil, requiredArg("label name")
	}
	path, err := repoPath(owner, repo, "labels")
	if err != nil {
		return nil, nil, err
	}

	body := *req
	body.Color = normalizeColor(req.Color)

	label := new(Label)
	resp, err := m.client.Post(ctx, path, &body, label)
	if err != nil {
		return nil, resp, err
	}
	return label, resp, nil
}

// Update edits a label. Use NewName to rename it.
func (m *LabelsManager) Update(ctx context.Context, owner, repo, name string, req *LabelRequest) (*Label, *Response, error) {
	if name == "" {
		return nil, nil, requiredArg("label name")
	}
	if req == nil {
		return nil, nil, requiredArg("label request")
	}
	path, err := repoPath(owner, repo, "labels", name)
	if err != nil {
		return nil, nil, err
	}

	body := *req
	body.Name = nil
	body.Color = normalizeColor(req.Color)

	label := new(Label)
	resp, err := m.client.Patch(ctx, path, &body, label)
	if err != nil {
		return nil, resp, err
	}
	return label, resp, nil
}

// Delete deletes a label.
func (m *LabelsManager) Delete(ctx context.Context, owner, repo, name string) (*Response, error) {
	if name == "" {
		return nil, requiredArg("label name")
	}
	path, err := repoPath(owner, repo, "labels", name)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

func issueLabelsPath(owner, repo string, number int, rest ...string) (string, error) {
	if number <= 0 {
		return "", requiredArg("issue number")
	}
	return repoPath(owner, repo, append([]string{"issues", strconv.Itoa(number), "labels"}, rest...)...)
}

// ListForIssue lists the labels on an issue.
func (m *LabelsManager) ListForIssue(ctx context.Context, owner, repo string, number int, opts *ListOptions) ([]*Label, *Response, error) {
	path, err := issueLabelsPath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	var labels []*Label
	resp, err := m.client.Get(ctx, path, opts, &labels)
	if err != nil {
		return nil, resp, err
	}
	return labels, resp, nil
}

type issueLabelsRequest struct {
	Labels []string `json:"labels"`
}

// AddToIssue adds labels to an issue and returns the resulting label set.
func (m *LabelsManager) AddToIssue(ctx context.Context, owner, repo string, number int, labels []string) ([]*Label, *Response, error) {
	if len(labels) == 0 {
		return nil, nil, requiredArg("labels")
	}
	path, err := issueLabelsPath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	var out []*Label
	resp, err := m.client.Post(ctx, path, &issueLabelsRequest{Labels: labels}, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

// ReplaceForIssue replaces every label on an issue. An empty slice clears them.
func (m *LabelsManager) ReplaceForIssue(ctx context.Context, owner, repo string, number int, labels []string) ([]*Label, *Response, error) {
	path, err := issueLabelsPath(owner, repo, number)
	if err != nil {
		return nil, nil, err
	}
	if labels == nil {
		labels = []string{}
	}

	var out []*Label
	resp, err := m.client.Put(ctx, path, &issueLabelsRequest{Labels: labels}, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

// RemoveFromIssue removes one label from an issue.
func (m *LabelsManager) RemoveFromIssue(ctx context.Context, owner, repo string, number int, label string) (*Response, error) {
	if label == "" {
		return nil, requiredArg("label name")
	}
	path, err := issueLabelsPath(owner, repo, number, label)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// RemoveAllFromIssue removes every label from an issue.
func (m *LabelsManager) RemoveAllFromIssue(ctx context.Context, owner, repo string, number int) (*Response, error) {
	path, err := issueLabelsPath(owner, repo, number)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, path, nil, nil)
}

// ListForMilestone lists the labels of the issues in a milestone.
func (m *LabelsManager) ListForMilestone(ctx context.Context, owner, repo string, milestone int, opts *ListOptions) ([]*Label, *Response, error) {
	if milestone <= 0 {
		return nil, nil, requiredArg("milestone number")
	}
	path, err := repoPath(owner, repo, "milestones", strconv.Itoa(milestone), "labels")
	if err != nil {
		return nil, nil, err
	}

	var labels []*Label
	resp, err := m.client.Get(ctx, path, opts, &labels)
	if err != nil {
		return nil, resp, err
	}
	return labels, resp, nil
}

// EnsureExist creates every label in defs that the repository does not have
// yet and returns the names it created. Existing labels are left untouched.
// On failure the labels created before the error are returned with it.
func (m *LabelsManager) EnsureExist(ctx context.Context, owner, repo string, defs []LabelDefinition) ([]string, error) {
	existing, err := m.ListAll(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository labels: %w", err)
	}

	existingLabelMap := make(map[string]bool, len(existing))
	for _, label := range existing {
		existingLabelMap[strings.ToLower(label.GetName())] = true
	}

	var missing []LabelDefinition
	for _, def := range defs {
		if def.Name == "" || existingLabelMap[strings.ToLower(def.Name)] {
			continue
		}
		existingLabelMap[strings.ToLower(def.Name)] = true
		missing = append(missing, def)
	}

	// 各goroutineは自分の添字だけを書く
	done := make([]bool, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ensureExistConcurrency)
	for i, def := range missing {
		i, def := i, def
		g.Go(func() error {
			req := &LabelRequest{Name: String(def.Name)}
			if def.Color != "" {
				req.Color = String(def.Color)
			}
			if def.Description != "" {
				req.Description = String(def.Description)
			}
			if _, _, err := m.Create(gctx, owner, repo, req); err != nil {
				return fmt.Errorf("failed to create label %s: %w", def.Name, err)
			}
			done[i] = true
			m.client.logger.Info("label_created", "owner", owner, "repo", repo, "label", def.Name)
			return nil
		})
	}
	err = g.Wait()

	created := make([]string, 0, len(missing))
	for i, def := range missing {
		if done[i] {
			created = append(created, def.Name)
		}
	}
	return created, err
}

// Transition swaps label from for label to on an issue. When adding the new
// label fails the old one is restored. It returns nil info when the issue
// does not carry from. When the issue already carries to, only from is
// removed and the returned info has an empty To.
func (m *LabelsManager) Transition(ctx context.Context, owner, repo string, number int, from, to string) (*TransitionInfo, error) {
	if from == "" || to == "" {
		return nil, requiredArg("transition labels")
	}

	labels, _, err := m.ListForIssue(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	hasFrom, hasTo := false, false
	for _, label := range labels {
		switch label.GetName() {
		case from:
			hasFrom = true
		case to:
			hasTo = true
		}
	}
	if !hasFrom {
		return nil, nil
	}

	if hasTo {
		// 遷移先は付与済み。古いラベルだけ外す
		if _, err := m.RemoveFromIssue(ctx, owner, repo, number, from); err != nil {
			return nil, fmt.Errorf("failed to remove label %s: %w", from, err)
		}
		return &TransitionInfo{From: from}, nil
	}

	if _, err := m.RemoveFromIssue(ctx, owner, repo, number, from); err != nil {
		return nil, fmt.Errorf("failed to remove label %s: %w", from, err)
	}

	if _, _, err := m.AddToIssue(ctx, owner, repo, number, []string{to}); err != nil {
		// Try to restore the original label
		if _, _, restoreErr := m.AddToIssue(ctx, owner, repo, number, []string{from}); restoreErr != nil {
			m.client.logger.Error("label_restore_failed",
				"owner", owner, "repo", repo, "issue", number,
				"label", from, "error", restoreErr.Error(),
			)
		}
		return nil, fmt.Errorf("failed to add label %s: %w", to, err)
	}

	return &TransitionInfo{From: from, To: to}, nil
}
