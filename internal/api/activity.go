package api

import (
	"context"
	"net/http"
	"net/url"

	"faros-cli/internal/model"
)

// TaskActivity returns the change history for one task, newest first.
func (c *Client) TaskActivity(ctx context.Context, taskID string) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	path := "/activity/tasks/" + url.PathEscape(taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GlobalActivity returns recent activity across everything the current user
// can see.
func (c *Client) GlobalActivity(ctx context.Context) ([]model.ActivityEntry, error) {
	var entries []model.ActivityEntry
	if err := c.do(ctx, http.MethodGet, "/activity", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
