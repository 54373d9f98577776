package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/api"
	"faros-cli/internal/cache"
	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
	"faros-cli/internal/session"
)

// overlay selects which panel, if any, sits on top of the task list.
type overlay int

const (
	overlayNone overlay = iota
	overlayDetail
	overlayCreate
	overlayEdit
	overlayComments
	overlayShares
	overlayConfirmDelete
)

// Messages.
type (
	// settleMsg fires after the debounce delay; stale sequences are ignored.
	settleMsg struct{ seq uint64 }
	// refreshDoneMsg reports that a list query finished (state lives in the engine).
	refreshDoneMsg struct{}
	statsDoneMsg   struct{}
	redrawMsg      struct{}
	opDoneMsg      struct{ err error }
	activityMsg    struct {
		entries []model.ActivityEntry
		err     error
	}
	commentsLoadedMsg struct{ err error }
	sharesLoadedMsg   struct{ err error }
	flashClearMsg     struct{ seq uint64 }
)

type appModel struct {
	eng    *dashboard.Engine
	client *api.Client
	sess   *session.Session
	log    *slog.Logger
	cache  *cache.Store

	width    int
	height   int
	seenSize bool

	cursor int
	spin   spinner.Model
	search textinput.Model
	// searching means keystrokes go to the search input instead of the list.
	searching bool
	priority  model.Priority
	status    model.StatusFilter

	// cached is painted until the first real fetch lands.
	cached    []model.Task
	cachedAt  time.Time
	firstLoad bool

	activity []model.ActivityEntry

	overlay  overlay
	detail   model.Task
	form     formModel
	comments *commentsModel
	shares   *sharesModel
	pending  model.Task // delete confirmation target

	flash    string
	flashSeq uint64
}

func newAppModel(client *api.Client, sess *session.Session, log *slog.Logger) appModel {
	search := textinput.New()
	search.Placeholder = "search tasks"
	search.Prompt = "/"
	search.CharLimit = 120

	m := appModel{
		eng:       dashboard.New(client, log),
		client:    client,
		sess:      sess,
		log:       log,
		search:    search,
		spin:      spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styleMuted)),
		firstLoad: true,
	}

	if store, err := cache.Open(); err == nil {
		m.cache = store
		if snap, err := store.Get(context.Background(), sess.Username(), model.ViewPersonal); err == nil {
			m.cached = snap.Tasks
			m.cachedAt = snap.FetchedAt
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.statsCmd(), m.spin.Tick)
}

// visibleTasks is what the list pane renders: live engine state once the
// first fetch has landed, the cached snapshot before that.
func (m appModel) visibleTasks() []model.Task {
	if m.firstLoad && len(m.eng.Tasks()) == 0 {
		return m.cached
	}
	return m.eng.Tasks()
}

func (m appModel) filters() model.Filters {
	return model.Filters{
		Search:   m.search.Value(),
		Priority: m.priority,
		Status:   m.status,
	}
}

// settleCmd arms the debounce timer for a filter/page/view change.
func settleCmd(seq uint64) tea.Cmd {
	return tea.Tick(dashboard.DebounceDelay, func(time.Time) tea.Msg {
		return settleMsg{seq: seq}
	})
}

func (m *appModel) refreshCmd() tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		_ = eng.Refresh(context.Background())
		return refreshDoneMsg{}
	}
}

func (m *appModel) statsCmd() tea.Cmd {
	eng := m.eng
	return func() tea.Msg {
		_ = eng.RefreshStats(context.Background())
		return statsDoneMsg{}
	}
}

func (m *appModel) activityCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.GlobalActivity(context.Background())
		return activityMsg{entries: entries, err: err}
	}
}

// redrawSoon repaints shortly after an optimistic mutation is kicked off so
// the predicted state shows before the network settles.
func redrawSoon() tea.Cmd {
	return tea.Tick(20*time.Millisecond, func(time.Time) tea.Msg { return redrawMsg{} })
}

func (m *appModel) setFlash(s string) tea.Cmd {
	m.flash = s
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return flashClearMsg{seq: seq} })
}

// snapshotCache persists the current unfiltered first page for offline use.
func (m *appModel) snapshotCache() {
	if m.cache == nil || m.eng.View() == model.ViewActivity {
		return
	}
	if !m.filters().IsZero() {
		return
	}
	page, pages := m.eng.Page()
	if page != 1 {
		return
	}
	snap := cache.Snapshot{Tasks: m.eng.Tasks(), Page: page, Pages: pages, FetchedAt: time.Now()}
	if err := m.cache.Put(context.Background(), m.sess.Username(), m.eng.View(), snap); err != nil {
		m.log.Warn("cache write failed", "err", err)
	}
}

func (m *appModel) clampCursor() {
	n := len(m.visibleTasks())
	if m.eng.View() == model.ViewActivity {
		n = len(m.activity)
	}
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.cursor], true
}
