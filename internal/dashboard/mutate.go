package dashboard

import (
	"context"
	"strings"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// Mutations locate their target by stable key (task id), never by position:
// a concurrent fetch can reorder the collection under an in-flight mutation.

// Toggle flips a task's completed flag optimistically: the local collection
// changes before the network call resolves. On failure the error is surfaced
// but the flip is not rolled back; a later refetch re-converges the
// collection with the server.
func (e *Engine) Toggle(ctx context.Context, taskID string) error {
	e.mu.Lock()
	var completed bool
	found := false
	for i := range e.tasks {
		if e.tasks[i].ID == taskID {
			e.tasks[i].Completed = !e.tasks[i].Completed
			completed = e.tasks[i].Completed
			found = true
			break
		}
	}
	e.mu.Unlock()
	if !found {
		return NotFoundError{Kind: "task", ID: taskID}
	}

	if _, err := e.svc.UpdateTask(ctx, taskID, api.TaskPatch{Completed: &completed}); err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		return err
	}
	_ = e.RefreshStats(ctx)
	return nil
}

// Delete removes the task from the local collection immediately and then
// issues the server delete. There is no restore path on failure; the error
// is surfaced and the next refetch resolves any divergence.
func (e *Engine) Delete(ctx context.Context, taskID string) error {
	e.mu.Lock()
	kept := e.tasks[:0]
	found := false
	for _, t := range e.tasks {
		if t.ID == taskID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	e.tasks = kept
	e.mu.Unlock()
	if !found {
		return NotFoundError{Kind: "task", ID: taskID}
	}

	if err := e.svc.DeleteTask(ctx, taskID); err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		return err
	}
	_ = e.RefreshStats(ctx)
	return nil
}

// Edit sends a partial update with no local prediction, then re-runs the
// full list query so server-computed fields (recalculated overdue status,
// normalized tags) land in the collection. Latency is traded for
// correctness here.
func (e *Engine) Edit(ctx context.Context, taskID string, patch api.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := e.svc.UpdateTask(ctx, taskID, patch); err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		return err
	}
	if err := e.Refresh(ctx); err != nil {
		return err
	}
	return e.RefreshStats(ctx)
}

// Create posts a new task. In the personal view the server record is
// prepended to the collection; creating from the shared view switches back
// to personal and refetches instead, since the new task belongs there.
func (e *Engine) Create(ctx context.Context, in api.TaskCreate) (model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	created, err := e.svc.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, err
	}

	e.mu.Lock()
	shared := e.view == model.ViewShared
	if !shared {
		e.tasks = append([]model.Task{created}, e.tasks...)
	}
	e.mu.Unlock()

	if shared {
		e.SetView(model.ViewPersonal)
		if err := e.Refresh(ctx); err != nil {
			return created, err
		}
	}
	_ = e.RefreshStats(ctx)
	return created, nil
}
