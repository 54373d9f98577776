package cache

import (
	"context"
	"errors"
	"testing"

	"faros-cli/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("FAROS_CONFIG_DIR", t.TempDir())
	s, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap := Snapshot{
		Tasks: []model.Task{
			{ID: "t1", Title: "alpha", Priority: model.PriorityHigh},
			{ID: "t2", Title: "beta", Priority: model.PriorityLow, Completed: true},
		},
		Page:  2,
		Pages: 3,
	}
	if err := s.Put(ctx, "alice", model.ViewPersonal, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "alice", model.ViewPersonal)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].ID != "t1" || got.Page != 2 || got.Pages != 3 {
		t.Fatalf("snapshot = %+v", got)
	}
	if got.FetchedAt.IsZero() {
		t.Fatalf("FetchedAt should be stamped on Put")
	}
}

func TestGet_MissingKeyReturnsErrNoSnapshot(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "alice", model.ViewShared); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestPut_ReplacesPreviousSnapshotPerView(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "alice", model.ViewPersonal, Snapshot{Tasks: []model.Task{{ID: "old"}}, Page: 1, Pages: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "alice", model.ViewPersonal, Snapshot{Tasks: []model.Task{{ID: "new"}}, Page: 1, Pages: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "alice", model.ViewShared, Snapshot{Tasks: []model.Task{{ID: "shared"}}, Page: 1, Pages: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "alice", model.ViewPersonal)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "new" {
		t.Fatalf("personal snapshot = %+v", got.Tasks)
	}
	shared, err := s.Get(ctx, "alice", model.ViewShared)
	if err != nil {
		t.Fatalf("Get shared: %v", err)
	}
	if shared.Tasks[0].ID != "shared" {
		t.Fatalf("views must not clobber each other")
	}
}

func TestClear_DropsOnlyTheUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Put(ctx, "alice", model.ViewPersonal, Snapshot{Tasks: []model.Task{{ID: "a"}}, Page: 1, Pages: 1})
	_ = s.Put(ctx, "bob", model.ViewPersonal, Snapshot{Tasks: []model.Task{{ID: "b"}}, Page: 1, Pages: 1})

	if err := s.Clear(ctx, "alice"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Get(ctx, "alice", model.ViewPersonal); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("alice's snapshot should be gone, err = %v", err)
	}
	if _, err := s.Get(ctx, "bob", model.ViewPersonal); err != nil {
		t.Fatalf("bob's snapshot should survive, err = %v", err)
	}
}
