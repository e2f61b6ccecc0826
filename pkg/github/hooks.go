package github

import (
	"context"
	"strconv"
)

// HookRequest is the body for creating or updating a webhook. Name defaults
// to "web" on create; it is the only value GitHub accepts for new hooks.
type HookRequest struct {
	Name         *string     `json:"name,omitempty"`
	Config       *HookConfig `json:"config,omitempty"`
	Events       []string    `json:"events,omitempty"`
	AddEvents    []string    `json:"add_events,omitempty"`
	RemoveEvents []string    `json:"remove_events,omitempty"`
	Active       *bool       `json:"active,omitempty"`
}

// DeliveryListOptions specifies the cursor pagination of hook deliveries.
type DeliveryListOptions struct {
	Cursor  string `url:"cursor,omitempty"`
	PerPage int    `url:"per_page,omitempty"`
}

// hooks は リポジトリとOrganizationのWebhookで共通の実装
// 各メソッドは "repos/{owner}/{repo}" または "orgs/{org}" を prefix 引数で受け取る
type hooks struct {
	client *Client
}

func hookPath(prefix string, id int64, rest ...string) (string, error) {
	if id <= 0 {
		return "", requiredArg("hook id")
	}
	p := prefix + "/hooks/" + strconv.FormatInt(id, 10)
	if len(rest) > 0 {
		p += "/" + buildPath(rest...)
	}
	return p, nil
}

func (h *hooks) list(ctx context.Context, prefix string, opts *ListOptions) ([]*Hook, *Response, error) {
	var out []*Hook
	resp, err := h.client.Get(ctx, prefix+"/hooks", opts, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

func (h *hooks) get(ctx context.Context, prefix string, id int64) (*Hook, *Response, error) {
	path, err := hookPath(prefix, id)
	if err != nil {
		return nil, nil, err
	}

	hook := new(Hook)
	resp, err := h.client.Get(ctx, path, nil, hook)
	if err != nil {
		return nil, resp, err
	}
	return hook, resp, nil
}

func (h *hooks) create(ctx context.Context, prefix string, req *HookRequest) (*Hook, *Response, error) {
	if req == nil || req.Config == nil || req.Config.URL == nil || *req.Config.URL == "" {
		return nil, nil, requiredArg("hook config url")
	}
	body := *req
	if body.Name == nil {
		body.Name = String("web")
	}

	hook := new(Hook)
	resp, err := h.client.Post(ctx, prefix+"/hooks", &body, hook)
	if err != nil {
		return nil, resp, err
	}
	return hook, resp, nil
}

func (h *hooks) update(ctx context.Context, prefix string, id int64, req *HookRequest) (*Hook, *Response, error) {
	if req == nil {
		return nil, nil, requiredArg("hook request")
	}
	path, err := hookPath(prefix, id)
	if err != nil {
		return nil, nil, err
	}

	hook := new(Hook)
	resp, err := h.client.Patch(ctx, path, req, hook)
	if err != nil {
		return nil, resp, err
	}
	return hook, resp, nil
}

func (h *hooks) delete(ctx context.Context, prefix string, id int64) (*Response, error) {
	path, err := hookPath(prefix, id)
	if err != nil {
		return nil, err
	}
	return h.client.Delete(ctx, path, nil, nil)
}

func (h *hooks) post(ctx context.Context, prefix string, id int64, action string) (*Response, error) {
	path, err := hookPath(prefix, id, action)
	if err != nil {
		return nil, err
	}
	return h.client.Post(ctx, path, nil, nil)
}

func (h *hooks) getConfig(ctx context.Context, prefix string, id int64) (*HookConfig, *Response, error) {
	path, err := hookPath(prefix, id, "config")
	if err != nil {
		return nil, nil, err
	}

	cfg := new(HookConfig)
	resp, err := h.client.Get(ctx, path, nil, cfg)
	if err != nil {
		return nil, resp, err
	}
	return cfg, resp, nil
}

func (h *hooks) updateConfig(ctx context.Context, prefix string, id int64, cfg *HookConfig) (*HookConfig, *Response, error) {
	if cfg == nil {
		return nil, nil, requiredArg("hook config")
	}
	path, err := hookPath(prefix, id, "config")
	if err != nil {
		return nil, nil, err
	}

	out := new(HookConfig)
	resp, err := h.client.Patch(ctx, path, cfg, out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

func (h *hooks) listDeliveries(ctx context.Context, prefix string, id int64, opts *DeliveryListOptions) ([]*HookDelivery, *Response, error) {
	path, err := hookPath(prefix, id, "deliveries")
	if err != nil {
		return nil, nil, err
	}

	var out []*HookDelivery
	resp, err := h.client.Get(ctx, path, opts, &out)
	if err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

func (h *hooks) getDelivery(ctx context.Context, prefix string, id, deliveryID int64) (*HookDelivery, *Response, error) {
	if deliveryID <= 0 {
		return nil, nil, requiredArg("delivery id")
	}
	path, err := hookPath(prefix, id, "deliveries", strconv.FormatInt(deliveryID, 10))
	if err != nil {
		return nil, nil, err
	}

	d := new(HookDelivery)
	resp, err := h.client.Get(ctx, path, nil, d)
	if err != nil {
		return nil, resp, err
	}
	return d, resp, nil
}

func (h *hooks) redeliver(ctx context.Context, prefix string, id, deliveryID int64) (*Response, error) {
	if deliveryID <= 0 {
		return nil, requiredArg("delivery id")
	}
	path, err := hookPath(prefix, id, "deliveries", strconv.FormatInt(deliveryID, 10), "attempts")
	if err != nil {
		return nil, err
	}
	return h.client.Post(ctx, path, nil, nil)
}

// HooksManager handles repository webhooks (repos/{owner}/{repo}/hooks).
type HooksManager struct {
	hooks
}

func (m *HooksManager) prefix(owner, repo string) (string, error) {
	return repoPath(owner, repo)
}

// List lists the webhooks of a repository.
func (m *HooksManager) List(ctx context.Context, owner, repo string, opts *ListOptions) ([]*Hook, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.list(ctx, p, opts)
}

// Get fetches a repository webhook.
func (m *HooksManager) Get(ctx context.Context, owner, repo string, id int64) (*Hook, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.get(ctx, p, id)
}

// Create creates a repository webhook.
func (m *HooksManager) Create(ctx context.Context, owner, repo string, req *HookRequest) (*Hook, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.create(ctx, p, req)
}

// Update edits a repository webhook.
func (m *HooksManager) Update(ctx context.Context, owner, repo string, id int64, req *HookRequest) (*Hook, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.update(ctx, p, id, req)
}

// Delete deletes a repository webhook.
func (m *HooksManager) Delete(ctx context.Context, owner, repo string, id int64) (*Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, err
	}
	return m.delete(ctx, p, id)
}

// Ping triggers a ping event to the webhook.
func (m *HooksManager) Ping(ctx context.Context, owner, repo string, id int64) (*Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, err
	}
	return m.post(ctx, p, id, "pings")
}

// Test triggers the hook with the latest push to the repository.
func (m *HooksManager) Test(ctx context.Context, owner, repo string, id int64) (*Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, err
	}
	return m.post(ctx, p, id, "tests")
}

// GetConfig fetches the delivery configuration of a repository webhook.
func (m *HooksManager) GetConfig(ctx context.Context, owner, repo string, id int64) (*HookConfig, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.getConfig(ctx, p, id)
}

// UpdateConfig patches the delivery configuration of a repository webhook.
func (m *HooksManager) UpdateConfig(ctx context.Context, owner, repo string, id int64, cfg *HookConfig) (*HookConfig, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.updateConfig(ctx, p, id, cfg)
}

// ListDeliveries lists recent deliveries of a repository webhook.
func (m *HooksManager) ListDeliveries(ctx context.Context, owner, repo string, id int64, opts *DeliveryListOptions) ([]*HookDelivery, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.listDeliveries(ctx, p, id, opts)
}

// GetDelivery fetches one delivery of a repository webhook.
func (m *HooksManager) GetDelivery(ctx context.Context, owner, repo string, id, deliveryID int64) (*HookDelivery, *Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, nil, err
	}
	return m.getDelivery(ctx, p, id, deliveryID)
}

// RedeliverDelivery asks GitHub to send a delivery again.
func (m *HooksManager) RedeliverDelivery(ctx context.Context, owner, repo string, id, deliveryID int64) (*Response, error) {
	p, err := m.prefix(owner, repo)
	if err != nil {
		return nil, err
	}
	return m.redeliver(ctx, p, id, deliveryID)
}

// OrgHooksManager handles organization webhooks (orgs/{org}/hooks).
type OrgHooksManager struct {
	hooks
}

func (m *OrgHooksManager) prefix(org string) (string, error) {
	if org == "" {
		return "", requiredArg("org")
	}
	return buildPath("orgs", org), nil
}

// List lists the webhooks of an organization.
func (m *OrgHooksManager) List(ctx context.Context, org string, opts *ListOptions) ([]*Hook, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.list(ctx, p, opts)
}

// Get fetches an organization webhook.
func (m *OrgHooksManager) Get(ctx context.Context, org string, id int64) (*Hook, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.get(ctx, p, id)
}

// Create creates an organization webhook.
func (m *OrgHooksManager) Create(ctx context.Context, org string, req *HookRequest) (*Hook, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.create(ctx, p, req)
}

// Update edits an organization webhook.
func (m *OrgHooksManager) Update(ctx context.Context, org string, id int64, req *HookRequest) (*Hook, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.update(ctx, p, id, req)
}

// Delete deletes an organization webhook.
func (m *OrgHooksManager) Delete(ctx context.Context, org string, id int64) (*Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, err
	}
	return m.delete(ctx, p, id)
}

// Ping triggers a ping event to the webhook.
func (m *OrgHooksManager) Ping(ctx context.Context, org string, id int64) (*Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, err
	}
	return m.post(ctx, p, id, "pings")
}

// GetConfig fetches the delivery configuration of an organization webhook.
func (m *OrgHooksManager) GetConfig(ctx context.Context, org string, id int64) (*HookConfig, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.getConfig(ctx, p, id)
}

// UpdateConfig patches the delivery configuration of an organization webhook.
func (m *OrgHooksManager) UpdateConfig(ctx context.Context, org string, id int64, cfg *HookConfig) (*HookConfig, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.updateConfig(ctx, p, id, cfg)
}

// ListDeliveries lists recent deliveries of an organization webhook.
func (m *OrgHooksManager) ListDeliveries(ctx context.Context, org string, id int64, opts *DeliveryListOptions) ([]*HookDelivery, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.listDeliveries(ctx, p, id, opts)
}

// GetDelivery fetches one delivery of an organization webhook.
func (m *OrgHooksManager) GetDelivery(ctx context.Context, org string, id, deliveryID int64) (*HookDelivery, *Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, nil, err
	}
	return m.getDelivery(ctx, p, id, deliveryID)
}

// RedeliverDelivery asks GitHub to send a delivery again.
func (m *OrgHooksManager) RedeliverDelivery(ctx context.Context, org string, id, deliveryID int64) (*Response, error) {
	p, err := m.prefix(org)
	if err != nil {
		return nil, err
	}
	return m.redeliver(ctx, p, id, deliveryID)
}
