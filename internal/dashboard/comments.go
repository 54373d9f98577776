package dashboard

import (
	"context"
	"slices"
	"strings"
	"sync"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// CommentService is the slice of the request client a comment thread needs.
type CommentService interface {
	ListComments(ctx context.Context, taskID string) ([]model.Comment, error)
	AddComment(ctx context.Context, taskID, content string) (model.Comment, error)
	UpdateComment(ctx context.Context, commentID, content string) (model.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// CommentThread owns the comment collection for one task while its panel is
// open; it is discarded when the panel closes.
type CommentThread struct {
	svc    CommentService
	taskID string

	mu       sync.Mutex
	comments []model.Comment
}

func NewCommentThread(svc CommentService, taskID string) *CommentThread {
	return &CommentThread{svc: svc, taskID: taskID}
}

func (t *CommentThread) TaskID() string { return t.taskID }

func (t *CommentThread) Load(ctx context.Context) error {
	comments, err := t.svc.ListComments(ctx, t.taskID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.comments = comments
	t.mu.Unlock()
	return nil
}

func (t *CommentThread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.comments)
}

// Add is not optimistic: the server assigns the comment id and timestamps,
// so the created record is prepended only after success.
func (t *CommentThread) Add(ctx context.Context, content string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return model.Comment{}, ErrEmptyComment
	}
	created, err := t.svc.AddComment(ctx, t.taskID, content)
	if err != nil {
		return model.Comment{}, err
	}
	t.mu.Lock()
	t.comments = append([]model.Comment{created}, t.comments...)
	t.mu.Unlock()
	return created, nil
}

// Update waits for the server record and swaps it in by id.
func (t *CommentThread) Update(ctx context.Context, commentID, content string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return model.Comment{}, ErrEmptyComment
	}
	updated, err := t.svc.UpdateComment(ctx, commentID, content)
	if err != nil {
		return model.Comment{}, err
	}
	t.mu.Lock()
	for i := range t.comments {
		if t.comments[i].ID == commentID {
			t.comments[i] = updated
			break
		}
	}
	t.mu.Unlock()
	return updated, nil
}

// Delete is optimistic with snapshot rollback: the full collection is
// snapshotted before the target is removed locally, and restored verbatim
// (same order, same ids) if the server delete fails.
func (t *CommentThread) Delete(ctx context.Context, commentID string) error {
	t.mu.Lock()
	snapshot := slices.Clone(t.comments)
	kept := t.comments[:0:0]
	found := false
	for _, c := range t.comments {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	t.comments = kept
	t.mu.Unlock()
	if !found {
		return NotFoundError{Kind: "comment", ID: commentID}
	}

	if err := t.svc.DeleteComment(ctx, commentID); err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		t.mu.Lock()
		t.comments = snapshot
		t.mu.Unlock()
		return err
	}
	return nil
}
