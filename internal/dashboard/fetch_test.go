package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

func TestBuildListParams(t *testing.T) {
	cases := []struct {
		name    string
		filters model.Filters
		page    int
		check   func(t *testing.T, p api.ListTasksParams)
	}{
		{
			name:    "completed page 2",
			filters: model.Filters{Status: model.StatusCompleted},
			page:    2,
			check: func(t *testing.T, p api.ListTasksParams) {
				if p.Limit != 10 || p.Skip != 10 {
					t.Fatalf("limit/skip = %d/%d, want 10/10", p.Limit, p.Skip)
				}
				if p.Completed == nil || !*p.Completed {
					t.Fatalf("completed = %v, want true", p.Completed)
				}
			},
		},
		{
			name:    "pending maps to completed=false",
			filters: model.Filters{Status: model.StatusPending},
			page:    1,
			check: func(t *testing.T, p api.ListTasksParams) {
				if p.Completed == nil || *p.Completed {
					t.Fatalf("completed = %v, want false", p.Completed)
				}
				if p.Skip != 0 {
					t.Fatalf("skip = %d, want 0", p.Skip)
				}
			},
		},
		{
			name:    "unset status omits the parameter",
			filters: model.Filters{Search: "q", Priority: model.PriorityHigh},
			page:    1,
			check: func(t *testing.T, p api.ListTasksParams) {
				if p.Completed != nil {
					t.Fatalf("completed should be nil when status unset")
				}
				if p.Search != "q" || p.Priority != model.PriorityHigh {
					t.Fatalf("search/priority not carried: %+v", p)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, BuildListParams(tc.filters, tc.page))
		})
	}
}

func TestRefresh_ReplacesCollectionWholesale(t *testing.T) {
	svc := newStubService()
	e := New(svc, nil)

	seedTasks(e, svc, taskList("t1", "t2"))
	if got := e.Tasks(); len(got) != 2 {
		t.Fatalf("seed: %d tasks", len(got))
	}

	seedTasks(e, svc, taskList("t3"))
	got := e.Tasks()
	if len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("expected wholesale replacement, got %+v", got)
	}
}

func TestRefresh_OnlyLaterQueryResultIsApplied(t *testing.T) {
	type reply struct {
		page api.TaskPage
		err  error
	}
	calls := make(chan chan reply, 2)

	svc := newStubService()
	svc.listFn = func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
		r := make(chan reply)
		calls <- r
		got := <-r
		return got.page, got.err
	}
	e := New(svc, nil)

	done1 := make(chan error, 1)
	go func() { done1 <- e.Refresh(context.Background()) }()
	call1 := <-calls

	done2 := make(chan error, 1)
	go func() { done2 <- e.Refresh(context.Background()) }()
	call2 := <-calls

	// Later query settles first.
	call2 <- reply{page: api.TaskPage{Tasks: taskList("new"), Pages: 2}}
	if err := <-done2; err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	// The superseded query then completes successfully anyway; its result
	// must be discarded unconditionally.
	call1 <- reply{page: api.TaskPage{Tasks: taskList("stale"), Pages: 9}}
	if err := <-done1; err != nil {
		t.Fatalf("first refresh should discard silently, got %v", err)
	}

	got := e.Tasks()
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("visible collection = %+v, want the later query's result", got)
	}
	if _, total := e.Page(); total != 2 {
		t.Fatalf("total pages = %d, want the later query's value", total)
	}
}

func TestRefresh_NewQueryCancelsInFlight(t *testing.T) {
	started := make(chan context.Context, 2)
	release := make(chan struct{})
	svc := newStubService()
	svc.listFn = func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
		started <- ctx
		<-release
		return api.TaskPage{Pages: 1}, ctx.Err()
	}
	e := New(svc, nil)

	go func() { _ = e.Refresh(context.Background()) }()
	ctx1 := <-started

	go func() { _ = e.Refresh(context.Background()) }()
	<-started

	select {
	case <-ctx1.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("first query's context was not cancelled by the second query")
	}
	close(release)
}

func TestRefresh_SharedViewFlattensToSinglePage(t *testing.T) {
	svc := newStubService()
	svc.sharedFn = func(ctx context.Context) ([]model.SharedTaskWrapper, error) {
		return []model.SharedTaskWrapper{
			{Task: model.Task{ID: "t1", Title: "a"}, Permission: model.PermissionEdit, OwnerUsername: "bob"},
			{Task: model.Task{ID: "t2", Title: "b"}, Permission: model.PermissionView, OwnerUsername: "eve"},
		}, nil
	}
	e := New(svc, nil)
	e.SetView(model.ViewShared)

	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got := e.Tasks()
	if len(got) != 2 {
		t.Fatalf("tasks = %d", len(got))
	}
	if got[0].MyPermission != model.PermissionEdit || got[0].OwnerUsername != "bob" {
		t.Fatalf("permission/owner not merged onto task: %+v", got[0])
	}
	if _, total := e.Page(); total != 1 {
		t.Fatalf("shared view must report a single page, got %d", total)
	}
}

func TestRefresh_ErrorSurfacedButCancellationIsNot(t *testing.T) {
	svc := newStubService()
	boom := errors.New("boom")
	svc.listFn = func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
		return api.TaskPage{}, boom
	}
	e := New(svc, nil)
	seed := taskList("keep")
	seedTasks(e, svc, seed)
	// seedTasks swaps listFn back to the failing one.
	svc.listFn = func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
		return api.TaskPage{}, boom
	}

	if err := e.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Refresh err = %v, want boom", err)
	}
	if e.Err() == nil {
		t.Fatalf("expected surfaced error state")
	}
	if got := e.Tasks(); len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("a failed read must not mutate the collection: %+v", got)
	}

	svc.listFn = func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
		return api.TaskPage{}, context.Canceled
	}
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("cancellation must not surface as an error, got %v", err)
	}
}

func TestRefresh_ActivityViewFetchesNothing(t *testing.T) {
	svc := newStubService()
	e := New(svc, nil)
	e.SetView(model.ViewActivity)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if svc.count("ListTasks")+svc.count("ListSharedTasks") != 0 {
		t.Fatalf("activity view must not issue task list queries")
	}
}

func TestRefreshStats_SkippedInSharedView(t *testing.T) {
	svc := newStubService()
	e := New(svc, nil)
	e.SetView(model.ViewShared)
	if err := e.RefreshStats(context.Background()); err != nil {
		t.Fatalf("RefreshStats: %v", err)
	}
	if svc.count("GetStats") != 0 {
		t.Fatalf("stats must not be fetched in shared view")
	}
}

func TestRefreshStats_AlwaysServerComputed(t *testing.T) {
	svc := newStubService()
	svc.statsFn = func(ctx context.Context) (model.Stats, error) {
		return model.Stats{Total: 5, Completed: 2, Incomplete: 3, Overdue: 1}, nil
	}
	e := New(svc, nil)
	if err := e.RefreshStats(context.Background()); err != nil {
		t.Fatalf("RefreshStats: %v", err)
	}
	if got := e.Stats(); got.Total != 5 || got.Overdue != 1 {
		t.Fatalf("stats = %+v", got)
	}
}
