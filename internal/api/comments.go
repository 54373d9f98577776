package api

import (
	"context"
	"net/http"
	"net/url"

	"faros-cli/internal/model"
)

type commentBody struct {
	Content string `json:"content"`
}

func (c *Client) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	var comments []model.Comment
	path := "/tasks/" + url.PathEscape(taskID) + "/comments"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment creates a comment and returns the server record; the id and
// timestamps are server-assigned.
func (c *Client) AddComment(ctx context.Context, taskID, content string) (model.Comment, error) {
	var out model.Comment
	path := "/tasks/" + url.PathEscape(taskID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, nil, commentBody{Content: content}, &out); err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (c *Client) UpdateComment(ctx context.Context, commentID, content string) (model.Comment, error) {
	var out model.Comment
	path := "/comments/" + url.PathEscape(commentID)
	if err := c.do(ctx, http.MethodPatch, path, nil, commentBody{Content: content}, &out); err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil, nil)
}
