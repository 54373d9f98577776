// Package dashboard owns the client-side task synchronization layer for one
// mounted dashboard session: it issues filtered/paginated/search queries,
// applies optimistic mutations, and reconciles server-confirmed state with
// the in-memory task collection.
//
// Concurrency model: the Engine is mutex-guarded so UI goroutines and
// in-flight network completions interleave safely. At most one list query is
// in flight; starting a new one cancels the previous, and a superseded
// query's result is discarded by generation check even if it completes.
// Mutations on different tasks are not serialized against each other; the
// collection is replaced wholesale on fetch success, so the last settling
// operation wins.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// PageSize is the fixed task-list page size.
const PageSize = 10

// DebounceDelay is the settling delay applied between a filter/page/view
// change and the query it triggers.
const DebounceDelay = 500 * time.Millisecond

// Service is the slice of the request client the engine consumes.
type Service interface {
	ListTasks(ctx context.Context, p api.ListTasksParams) (api.TaskPage, error)
	ListSharedTasks(ctx context.Context) ([]model.SharedTaskWrapper, error)
	GetStats(ctx context.Context) (model.Stats, error)
	CreateTask(ctx context.Context, in api.TaskCreate) (model.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch api.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

type Engine struct {
	svc Service
	log *slog.Logger

	mu         sync.Mutex
	view       model.ViewMode
	filters    model.Filters
	page       int
	totalPages int
	tasks      []model.Task
	stats      model.Stats
	loading    bool
	lastErr    error

	// changeSeq identifies the latest filter/page/view change for debounce
	// settling; fetchGen identifies the latest issued query so a superseded
	// completion can be discarded.
	changeSeq   uint64
	fetchGen    uint64
	cancelFetch context.CancelFunc
}

func New(svc Service, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		svc:        svc,
		log:        log,
		view:       model.ViewPersonal,
		page:       1,
		totalPages: 1,
	}
}

// SetFilters installs a new filter state and resets pagination to page 1.
// It returns the change sequence for debounce settling.
func (e *Engine) SetFilters(f model.Filters) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f != e.filters {
		e.filters = f
		e.page = 1
	}
	e.changeSeq++
	return e.changeSeq
}

// SetPage moves to the given page (clamped to >= 1).
func (e *Engine) SetPage(page int) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if page < 1 {
		page = 1
	}
	e.page = page
	e.changeSeq++
	return e.changeSeq
}

// SetView switches the dashboard view. Switching resets pagination to page 1
// and discards the previous collection.
func (e *Engine) SetView(v model.ViewMode) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v != e.view {
		e.view = v
		e.page = 1
		e.tasks = nil
		e.totalPages = 1
		e.lastErr = nil
	}
	e.changeSeq++
	return e.changeSeq
}

// SeqCurrent reports whether seq is still the latest change. A debounce
// timer whose seq has been superseded must not issue its query.
func (e *Engine) SeqCurrent(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return seq == e.changeSeq
}

func (e *Engine) View() model.ViewMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

func (e *Engine) Filters() model.Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

func (e *Engine) Page() (page, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page, e.totalPages
}

// Tasks returns a copy of the canonical collection. Callers never mutate the
// engine's slice in place.
func (e *Engine) Tasks() []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

func (e *Engine) Stats() model.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Err returns the last surfaced read error, cleared by the next successful
// fetch.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// replaceTasks installs a wholesale fetch result. Any optimistic edit not
// yet confirmed by a refetch is implicitly discarded.
func (e *Engine) replaceTasks(tasks []model.Task, totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	e.tasks = tasks
	e.totalPages = totalPages
	e.lastErr = nil
}
