package dashboard

import (
	"context"
	"sync"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// stubService answers engine calls through swappable functions and counts
// every call so tests can assert what did (or did not) reach the network.
type stubService struct {
	mu     sync.Mutex
	counts map[string]int

	listFn   func(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error)
	sharedFn func(ctx context.Context) ([]model.SharedTaskWrapper, error)
	statsFn  func(ctx context.Context) (model.Stats, error)
	createFn func(ctx context.Context, in api.TaskCreate) (model.Task, error)
	updateFn func(ctx context.Context, taskID string, patch api.TaskPatch) (model.Task, error)
	deleteFn func(ctx context.Context, taskID string) error
}

func newStubService() *stubService {
	return &stubService{counts: map[string]int{}}
}

func (s *stubService) bump(name string) {
	s.mu.Lock()
	s.counts[name]++
	s.mu.Unlock()
}

func (s *stubService) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[name]
}

func (s *stubService) ListTasks(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error) {
	s.bump("ListTasks")
	if s.listFn != nil {
		return s.listFn(ctx, p)
	}
	return api.TaskPage{Pages: 1}, nil
}

func (s *stubService) ListSharedTasks(ctx context.Context) ([]model.SharedTaskWrapper, error) {
	s.bump("ListSharedTasks")
	if s.sharedFn != nil {
		return s.sharedFn(ctx)
	}
	return nil, nil
}

func (s *stubService) GetStats(ctx context.Context) (model.Stats, error) {
	s.bump("GetStats")
	if s.statsFn != nil {
		return s.statsFn(ctx)
	}
	return model.Stats{}, nil
}

func (s *stubService) CreateTask(ctx context.Context, in api.TaskCreate) (model.Task, error) {
	s.bump("CreateTask")
	if s.createFn != nil {
		return s.createFn(ctx, in)
	}
	return model.Task{ID: "task-created", Title: in.Title, Priority: in.Priority}, nil
}

func (s *stubService) UpdateTask(ctx context.Context, taskID string, patch api.TaskPatch) (model.Task, error) {
	s.bump("UpdateTask")
	if s.updateFn != nil {
		return s.updateFn(ctx, taskID, patch)
	}
	return model.Task{ID: taskID}, nil
}

func (s *stubService) DeleteTask(ctx context.Context, taskID string) error {
	s.bump("DeleteTask")
	if s.deleteFn != nil {
		return s.deleteFn(ctx, taskID)
	}
	return nil
}

func taskList(ids ...string) []model.Task {
	out := make([]model.Task, len(ids))
	for i, id := range ids {
		out[i] = model.Task{ID: id, Title: "task " + id, Priority: model.PriorityMedium}
	}
	return out
}

// seedTasks installs a collection through the normal fetch path so tests
// start from a realistic state.
func seedTasks(e *Engine, svc *stubService, tasks []model.Task) {
	prev := svc.listFn
	svc.listFn = func(context.Context, api.ListTasksParams) (api.TaskPage, error) {
		return api.TaskPage{Tasks: tasks, Pages: 1}, nil
	}
	_ = e.Refresh(context.Background())
	svc.listFn = prev
}
