package perm

import (
	"strings"

	"faros-cli/internal/model"
)

// Pure capability checks over task/comment values and the current username.
// No caching: permission fields on a task can change between fetches, so
// callers must re-evaluate on every read.

// CanEditTask reports whether the current user may edit the task.
//
// Rules:
//   - In the personal view the current user is the implicit owner and can
//     always edit.
//   - In the shared view, edit requires an explicit edit grant.
func CanEditTask(t model.Task, ownerView bool) bool {
	if ownerView {
		return true
	}
	return t.MyPermission == model.PermissionEdit
}

// CanDeleteTask is owner-only. An edit grant never confers delete.
func CanDeleteTask(t model.Task, ownerView bool) bool {
	return ownerView
}

// CanShareTask is owner-only, same as delete.
func CanShareTask(t model.Task, ownerView bool) bool {
	return ownerView
}

// CanEditComment: only the comment author may edit their comment.
func CanEditComment(c model.Comment, currentUsername string) bool {
	currentUsername = strings.TrimSpace(currentUsername)
	if currentUsername == "" {
		return false
	}
	return c.Username == currentUsername
}

// CanDeleteComment: the author may delete their own comment, and the task
// owner may moderate any comment on their task.
func CanDeleteComment(c model.Comment, currentUsername string, isTaskOwner bool) bool {
	if CanEditComment(c, currentUsername) {
		return true
	}
	return isTaskOwner
}
