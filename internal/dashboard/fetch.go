package dashboard

import (
	"context"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// BuildListParams translates filter state and a 1-based page into query
// parameters for the personal list endpoint. Status pending/completed maps
// to the boolean completed parameter; unset status omits it.
func BuildListParams(f model.Filters, page int) api.ListTasksParams {
	if page < 1 {
		page = 1
	}
	p := api.ListTasksParams{
		Search:   f.Search,
		Priority: f.Priority,
		Limit:    PageSize,
		Skip:     (page - 1) * PageSize,
	}
	switch f.Status {
	case model.StatusCompleted:
		v := true
		p.Completed = &v
	case model.StatusPending:
		v := false
		p.Completed = &v
	}
	return p
}

// Refresh issues the list query for the current view, cancelling any query
// still in flight. The result is applied only while this query is still the
// latest one; a superseded result is discarded unconditionally, even if it
// completed successfully. Cancellation is not an error.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.view == model.ViewActivity {
		// The activity view has no task list; nothing to fetch here.
		e.mu.Unlock()
		return nil
	}
	if e.cancelFetch != nil {
		e.cancelFetch()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancelFetch = cancel
	e.fetchGen++
	gen := e.fetchGen
	view := e.view
	filters := e.filters
	page := e.page
	e.loading = true
	e.mu.Unlock()

	var (
		tasks      []model.Task
		totalPages int
		err        error
	)
	switch view {
	case model.ViewShared:
		var wrappers []model.SharedTaskWrapper
		wrappers, err = e.svc.ListSharedTasks(fetchCtx)
		if err == nil {
			tasks = make([]model.Task, len(wrappers))
			for i, w := range wrappers {
				tasks[i] = w.Flatten()
			}
			totalPages = 1
		}
	default:
		var result api.TaskPage
		result, err = e.svc.ListTasks(fetchCtx, BuildListParams(filters, page))
		if err == nil {
			tasks = result.Tasks
			totalPages = result.Pages
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.fetchGen {
		// A newer query superseded this one while it was in flight.
		return nil
	}
	e.loading = false
	e.cancelFetch = nil
	cancel()
	if err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		e.log.Warn("task fetch failed", "view", string(view), "error", err)
		e.lastErr = err
		return err
	}
	e.replaceTasks(tasks, totalPages)
	return nil
}

// RefreshStats re-requests the aggregate snapshot from the server. Stats are
// personal-view only and always server-computed: overdue counts depend on
// the server clock. Failures leave the previous snapshot in place.
func (e *Engine) RefreshStats(ctx context.Context) error {
	e.mu.Lock()
	view := e.view
	e.mu.Unlock()
	if view == model.ViewShared {
		return nil
	}

	stats, err := e.svc.GetStats(ctx)
	if err != nil {
		if api.IsCanceled(err) {
			return nil
		}
		e.log.Warn("stats fetch failed", "error", err)
		return err
	}
	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()
	return nil
}
