package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"faros-cli/internal/model"
)

// ListTasksParams are the query parameters for the personal task list.
// Nil/zero fields are omitted from the request.
type ListTasksParams struct {
	Search    string
	Priority  model.Priority
	Completed *bool
	Limit     int
	Skip      int
}

func (p ListTasksParams) values() url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("skip", strconv.Itoa(p.Skip))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Priority != "" {
		q.Set("priority", string(p.Priority))
	}
	if p.Completed != nil {
		q.Set("completed", strconv.FormatBool(*p.Completed))
	}
	return q
}

// TaskPage is the paginated task list response.
type TaskPage struct {
	Tasks []model.Task `json:"tasks"`
	Pages int          `json:"pages"`
}

func (c *Client) ListTasks(ctx context.Context, p ListTasksParams) (TaskPage, error) {
	var page TaskPage
	if err := c.do(ctx, http.MethodGet, "/tasks", p.values(), nil, &page); err != nil {
		return TaskPage{}, err
	}
	return page, nil
}

// ListSharedTasks returns the flat (unpaginated) shared-with-me list.
func (c *Client) ListSharedTasks(ctx context.Context) ([]model.SharedTaskWrapper, error) {
	var wrappers []model.SharedTaskWrapper
	if err := c.do(ctx, http.MethodGet, "/tasks/shared-with-me", nil, nil, &wrappers); err != nil {
		return nil, err
	}
	return wrappers, nil
}

func (c *Client) GetStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/tasks/stats", nil, nil, &stats); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil, nil, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// TaskCreate is the payload for creating a task.
type TaskCreate struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    model.Priority `json:"priority"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Tags        []string       `json:"tags"`
}

func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, in, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// TaskPatch is a partial update: only non-nil fields are sent.
type TaskPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
	Completed   *bool           `json:"completed,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, patch TaskPatch) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), nil, patch, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil, nil, nil)
}
