package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"faros-cli/internal/model"
)

// ShareGrant is the payload for granting access to a task. The collaborator
// is addressed by username; usernames are the natural key for share records.
type ShareGrant struct {
	SharedWithUsername string                `json:"shared_with_username"`
	Permission         model.SharePermission `json:"permission"`
}

type sharePatch struct {
	Permission model.SharePermission `json:"permission"`
}

// ListShares returns the task's share records. The server has shipped both
// a bare array and a {"shares": [...]} wrapper over time; accept either.
func (c *Client) ListShares(ctx context.Context, taskID string) ([]model.Share, error) {
	path := "/tasks/" + url.PathEscape(taskID) + "/shares"
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}

	var shares []model.Share
	if err := json.Unmarshal(raw, &shares); err == nil {
		return shares, nil
	}
	var wrapped struct {
		Shares []model.Share `json:"shares"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("GET %s: decode shares: %w", path, err)
	}
	return wrapped.Shares, nil
}

func (c *Client) GrantShare(ctx context.Context, taskID string, grant ShareGrant) (model.Share, error) {
	var out model.Share
	path := "/tasks/" + url.PathEscape(taskID) + "/shares"
	if err := c.do(ctx, http.MethodPost, path, nil, grant, &out); err != nil {
		return model.Share{}, err
	}
	return out, nil
}

func (c *Client) UpdateShare(ctx context.Context, taskID, username string, permission model.SharePermission) (model.Share, error) {
	var out model.Share
	path := "/tasks/" + url.PathEscape(taskID) + "/shares/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodPatch, path, nil, sharePatch{Permission: permission}, &out); err != nil {
		return model.Share{}, err
	}
	return out, nil
}

func (c *Client) RevokeShare(ctx context.Context, taskID, username string) error {
	path := "/tasks/" + url.PathEscape(taskID) + "/shares/" + url.PathEscape(username)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
