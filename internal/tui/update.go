package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/api"
	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
	"faros-cli/internal/perm"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenSize = true
		m.search.Width = max(20, msg.Width-4)
		return m, nil

	case settleMsg:
		// Only the latest change fires a query.
		if !m.eng.SeqCurrent(msg.seq) {
			return m, nil
		}
		if m.eng.View() == model.ViewActivity {
			return m, m.activityCmd()
		}
		return m, m.refreshCmd()

	case refreshDoneMsg:
		m.firstLoad = false
		if err := m.eng.Err(); err != nil {
			m.clampCursor()
			return m, m.setFlash(err.Error())
		}
		m.snapshotCache()
		m.clampCursor()
		return m, nil

	case statsDoneMsg, redrawMsg:
		m.clampCursor()
		return m, nil

	case activityMsg:
		if msg.err != nil && !api.IsCanceled(msg.err) {
			return m, m.setFlash(msg.err.Error())
		}
		if msg.err == nil {
			m.activity = msg.entries
		}
		m.clampCursor()
		return m, nil

	case opDoneMsg:
		m.clampCursor()
		if msg.err != nil && !api.IsCanceled(msg.err) {
			return m, m.setFlash(msg.err.Error())
		}
		return m, nil

	case commentsLoadedMsg:
		if msg.err != nil {
			return m, m.setFlash(msg.err.Error())
		}
		return m, nil

	case sharesLoadedMsg:
		if msg.err != nil {
			return m, m.setFlash(msg.err.Error())
		}
		return m, nil

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays capture all keys while open.
	switch m.overlay {
	case overlayDetail:
		return m.updateDetail(msg)
	case overlayCreate, overlayEdit:
		return m.updateForm(msg)
	case overlayComments:
		return m.updateComments(msg)
	case overlayShares:
		return m.updateShares(msg)
	case overlayConfirmDelete:
		return m.updateConfirm(msg)
	}

	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "tab":
		next := nextView(m.eng.View())
		seq := m.eng.SetView(next)
		m.cursor = 0
		cmds := []tea.Cmd{settleCmd(seq)}
		if next == model.ViewPersonal {
			cmds = append(cmds, m.statsCmd())
		}
		return m, tea.Batch(cmds...)

	case "f":
		m.priority = nextPriority(m.priority)
		return m, settleCmd(m.eng.SetFilters(m.filters()))

	case "t":
		m.status = nextStatus(m.status)
		return m, settleCmd(m.eng.SetFilters(m.filters()))

	case "left", "h":
		page, _ := m.eng.Page()
		if page <= 1 {
			return m, nil
		}
		return m, settleCmd(m.eng.SetPage(page - 1))

	case "right", "l":
		page, total := m.eng.Page()
		if page >= total {
			return m, nil
		}
		return m, settleCmd(m.eng.SetPage(page + 1))

	case "up", "k":
		m.cursor--
		m.clampCursor()
		return m, nil

	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil

	case "r":
		if m.eng.View() == model.ViewActivity {
			return m, m.activityCmd()
		}
		return m, tea.Batch(m.refreshCmd(), m.statsCmd())

	case "enter":
		if task, ok := m.selectedTask(); ok {
			m.detail = task
			m.overlay = overlayDetail
		}
		return m, nil

	case " ":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !perm.CanEditTask(task, m.eng.View() == model.ViewPersonal) {
			return m, m.setFlash("view-only access")
		}
		eng := m.eng
		id := task.ID
		return m, tea.Batch(func() tea.Msg {
			return opDoneMsg{err: eng.Toggle(context.Background(), id)}
		}, redrawSoon())

	case "n":
		m.form = newCreateForm()
		m.overlay = overlayCreate
		return m, m.form.focusCmd()

	case "e":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !perm.CanEditTask(task, m.eng.View() == model.ViewPersonal) {
			return m, m.setFlash("view-only access")
		}
		m.form = newEditForm(task)
		m.overlay = overlayEdit
		return m, m.form.focusCmd()

	case "x":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !perm.CanDeleteTask(task, m.eng.View() == model.ViewPersonal) {
			return m, m.setFlash("only the owner can delete a task")
		}
		m.pending = task
		m.overlay = overlayConfirmDelete
		return m, nil

	case "c":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.comments = newCommentsModel(m.client, task)
		m.overlay = overlayComments
		return m, m.comments.loadCmd()

	case "s":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !perm.CanShareTask(task, m.eng.View() == model.ViewPersonal) {
			return m, m.setFlash("only the owner can share a task")
		}
		m.shares = newSharesModel(m.client, task)
		m.overlay = overlayShares
		return m, m.shares.loadCmd()
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		if m.search.Value() != "" {
			m.search.SetValue("")
			return m, settleCmd(m.eng.SetFilters(m.filters()))
		}
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	// Every keystroke re-arms the debounce; only the last one queries.
	return m, tea.Batch(cmd, settleCmd(m.eng.SetFilters(m.filters())))
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "backspace":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.overlay = overlayNone
		eng := m.eng
		id := m.pending.ID
		return m, tea.Batch(func() tea.Msg {
			return opDoneMsg{err: eng.Delete(context.Background(), id)}
		}, redrawSoon())
	case "n", "esc":
		m.overlay = overlayNone
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		return m, nil
	case "tab", "down":
		m.form.next()
		return m, m.form.focusCmd()
	case "shift+tab", "up":
		m.form.prev()
		return m, m.form.focusCmd()
	case "enter":
		return m.submitForm()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	editing := m.overlay == overlayEdit
	if strings.TrimSpace(m.form.title.Value()) == "" {
		return m, m.setFlash(dashboard.ErrEmptyTitle.Error())
	}
	eng := m.eng
	if editing {
		patch, err := m.form.patch()
		if err != nil {
			return m, m.setFlash(err.Error())
		}
		id := m.form.taskID
		m.overlay = overlayNone
		return m, tea.Batch(func() tea.Msg {
			return opDoneMsg{err: eng.Edit(context.Background(), id, patch)}
		}, redrawSoon())
	}
	in, err := m.form.create()
	if err != nil {
		return m, m.setFlash(err.Error())
	}
	m.overlay = overlayNone
	m.cursor = 0
	return m, tea.Batch(func() tea.Msg {
		_, err := eng.Create(context.Background(), in)
		return opDoneMsg{err: err}
	}, redrawSoon())
}

func (m appModel) updateComments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := m.comments.handleKey(msg, m.sess.Username())
	if done {
		m.overlay = overlayNone
	}
	return m, cmd
}

func (m appModel) updateShares(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, cmd := m.shares.handleKey(msg)
	if done {
		m.overlay = overlayNone
	}
	return m, cmd
}

func nextView(v model.ViewMode) model.ViewMode {
	switch v {
	case model.ViewPersonal:
		return model.ViewShared
	case model.ViewShared:
		return model.ViewActivity
	default:
		return model.ViewPersonal
	}
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case "":
		return model.PriorityLow
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return ""
	}
}

func nextStatus(s model.StatusFilter) model.StatusFilter {
	switch s {
	case model.StatusAny:
		return model.StatusPending
	case model.StatusPending:
		return model.StatusCompleted
	default:
		return model.StatusAny
	}
}
