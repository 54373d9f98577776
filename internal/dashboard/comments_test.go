package dashboard

import (
	"context"
	"errors"
	"testing"

	"faros-cli/internal/model"
)

type stubComments struct {
	counts   map[string]int
	listFn   func(taskID string) ([]model.Comment, error)
	addFn    func(taskID, content string) (model.Comment, error)
	updateFn func(commentID, content string) (model.Comment, error)
	deleteFn func(commentID string) error
}

func newStubComments() *stubComments {
	return &stubComments{counts: map[string]int{}}
}

func (s *stubComments) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	s.counts["list"]++
	if s.listFn != nil {
		return s.listFn(taskID)
	}
	return nil, nil
}

func (s *stubComments) AddComment(ctx context.Context, taskID, content string) (model.Comment, error) {
	s.counts["add"]++
	if s.addFn != nil {
		return s.addFn(taskID, content)
	}
	return model.Comment{ID: "c-new", TaskID: taskID, Content: content}, nil
}

func (s *stubComments) UpdateComment(ctx context.Context, commentID, content string) (model.Comment, error) {
	s.counts["update"]++
	if s.updateFn != nil {
		return s.updateFn(commentID, content)
	}
	return model.Comment{ID: commentID, Content: content}, nil
}

func (s *stubComments) DeleteComment(ctx context.Context, commentID string) error {
	s.counts["delete"]++
	if s.deleteFn != nil {
		return s.deleteFn(commentID)
	}
	return nil
}

func commentFixture() []model.Comment {
	return []model.Comment{
		{ID: "c1", Username: "alice", Content: "first"},
		{ID: "c2", Username: "bob", Content: "second"},
		{ID: "c3", Username: "alice", Content: "third"},
	}
}

func loadedThread(t *testing.T, svc *stubComments) *CommentThread {
	t.Helper()
	svc.listFn = func(string) ([]model.Comment, error) { return commentFixture(), nil }
	th := NewCommentThread(svc, "t1")
	if err := th.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return th
}

func TestCommentAdd_WaitsForServerRecordThenPrepends(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)

	created, err := th.Add(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := th.Comments()
	if got[0].ID != created.ID {
		t.Fatalf("created comment must be prepended, head = %+v", got[0])
	}
	if len(got) != 4 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestCommentAdd_FailureLeavesListUntouched(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)
	boom := errors.New("boom")
	svc.addFn = func(string, string) (model.Comment, error) { return model.Comment{}, boom }

	if _, err := th.Add(context.Background(), "hello"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(th.Comments()) != 3 {
		t.Fatalf("add is not optimistic; the list must be unchanged on failure")
	}
}

func TestCommentAdd_EmptyRejectedBeforeNetwork(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)
	if _, err := th.Add(context.Background(), "  \n"); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("err = %v, want ErrEmptyComment", err)
	}
	if svc.counts["add"] != 0 {
		t.Fatalf("validation failure must never reach the network")
	}
}

func TestCommentDelete_RollbackRestoresExactSnapshot(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)
	boom := errors.New("boom")
	svc.deleteFn = func(string) error { return boom }

	if err := th.Delete(context.Background(), "c2"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	got := th.Comments()
	want := commentFixture()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Fatalf("restored order differs at %d: %s != %s", i, got[i].ID, want[i].ID)
		}
	}
}

func TestCommentDelete_OptimisticRemovalOnSuccess(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)

	entered := make(chan struct{})
	release := make(chan struct{})
	svc.deleteFn = func(string) error {
		close(entered)
		<-release
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- th.Delete(context.Background(), "c2") }()
	<-entered
	// Removal is observable while the delete is still in flight.
	for _, c := range th.Comments() {
		if c.ID == "c2" {
			t.Fatalf("c2 should be removed optimistically")
		}
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(th.Comments()) != 2 {
		t.Fatalf("len = %d after confirmed delete", len(th.Comments()))
	}
}

func TestCommentUpdate_SwapsServerRecordByID(t *testing.T) {
	svc := newStubComments()
	th := loadedThread(t, svc)

	if _, err := th.Update(context.Background(), "c2", "edited"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := th.Comments()
	if got[1].ID != "c2" || got[1].Content != "edited" {
		t.Fatalf("comment not swapped in place: %+v", got[1])
	}
}
