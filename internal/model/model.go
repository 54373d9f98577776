package model

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// SharePermission is the access level a share grants (and, on shared tasks,
// the access level the current user holds via MyPermission).
type SharePermission string

const (
	PermissionView SharePermission = "view"
	PermissionEdit SharePermission = "edit"
)

func ParseSharePermission(s string) (SharePermission, bool) {
	switch SharePermission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionView:
		return PermissionView, true
	case PermissionEdit:
		return PermissionEdit, true
	}
	return "", false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ShareCount  int        `json:"share_count"`

	// Set only on tasks listed via the shared-with-me endpoint; empty on
	// tasks the current user owns.
	MyPermission  SharePermission `json:"my_permission,omitempty"`
	OwnerUsername string          `json:"owner_username,omitempty"`
}

// Overdue reports whether the task is past due at the given instant.
// Overdue status is derived, never stored.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

type Comment struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Share is a grant of view/edit access on a task to another user.
// The collaborator username, not a numeric id, is the key for
// update/revoke operations.
type Share struct {
	ID                 string          `json:"id"`
	TaskID             string          `json:"task_id"`
	SharedWithUsername string          `json:"shared_with_username"`
	Permission         SharePermission `json:"permission"`
	GrantedAt          time.Time       `json:"granted_at"`
}

// SharedTaskWrapper is the wire shape of one shared-with-me list entry.
type SharedTaskWrapper struct {
	Task          Task            `json:"task"`
	Permission    SharePermission `json:"permission"`
	OwnerUsername string          `json:"owner_username"`
}

// Flatten merges the wrapper's grant fields onto the task entity.
func (w SharedTaskWrapper) Flatten() Task {
	t := w.Task
	t.MyPermission = w.Permission
	t.OwnerUsername = w.OwnerUsername
	return t
}

type FileAttachment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type ActivityEntry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id,omitempty"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Stats is the server-computed aggregate snapshot for the personal view.
// It is always re-requested, never recomputed client-side: overdue counts
// depend on the server clock.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Overdue    int `json:"overdue"`
}
