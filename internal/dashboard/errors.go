package dashboard

import (
	"errors"
	"fmt"
)

// Validation failures are checked before any network call and never reach
// the request client.
var (
	ErrEmptyTitle   = errors.New("task title must not be empty")
	ErrEmptyComment = errors.New("comment must not be empty")
)

// AlreadySharedError rejects a duplicate grant client-side: at most one
// share record may exist per (task, username) pair.
type AlreadySharedError struct {
	Username string
}

func (e AlreadySharedError) Error() string {
	return fmt.Sprintf("%s already has access", e.Username)
}

// NotFoundError reports a mutation aimed at an id that is no longer in the
// local collection.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
