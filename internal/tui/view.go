package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"faros-cli/internal/model"
)

func (m appModel) View() string {
	if !m.seenSize {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.overlay {
	case overlayDetail:
		b.WriteString(m.renderDetail())
	case overlayCreate, overlayEdit:
		b.WriteString(m.renderForm())
	case overlayComments:
		b.WriteString(m.renderComments())
	case overlayShares:
		b.WriteString(m.renderShares())
	case overlayConfirmDelete:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.renderMain())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m appModel) renderHeader() string {
	views := []model.ViewMode{model.ViewPersonal, model.ViewShared, model.ViewActivity}
	labels := map[model.ViewMode]string{
		model.ViewPersonal: "My Tasks",
		model.ViewShared:   "Shared With Me",
		model.ViewActivity: "Activity",
	}
	var tabs []string
	for _, v := range views {
		st := styleTab
		if v == m.eng.View() {
			st = styleTabOn
		}
		tabs = append(tabs, st.Render(labels[v]))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	if m.eng.View() == model.ViewPersonal {
		s := m.eng.Stats()
		statsLine := fmt.Sprintf("%d total  %s  %d pending  %s",
			s.Total,
			styleDone.Render(fmt.Sprintf("%d done", s.Completed)),
			s.Incomplete,
			styleOverdue.Render(fmt.Sprintf("%d overdue", s.Overdue)),
		)
		line += "\n" + styleMuted.Render(statsLine)
	}
	return line
}

func (m appModel) renderMain() string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if f := m.filters(); f.Priority != "" || f.Status != model.StatusAny {
		parts := []string{}
		if f.Priority != "" {
			parts = append(parts, "priority="+string(f.Priority))
		}
		if f.Status != model.StatusAny {
			parts = append(parts, "status="+string(f.Status))
		}
		b.WriteString(styleMuted.Render("filters: " + strings.Join(parts, " ")))
		b.WriteString("\n")
	}

	if m.eng.View() == model.ViewActivity {
		b.WriteString(m.renderActivity())
		return b.String()
	}

	tasks := m.visibleTasks()
	if m.eng.Loading() && len(tasks) == 0 {
		b.WriteString(m.spin.View() + styleMuted.Render(" fetching tasks"))
		return b.String()
	}
	if len(tasks) == 0 {
		b.WriteString(styleMuted.Render("no tasks"))
		return b.String()
	}

	if m.firstLoad && len(m.cached) > 0 {
		b.WriteString(styleMuted.Render("cached " + m.cachedAt.Local().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, t := range tasks {
		b.WriteString(m.renderTaskRow(t, i == m.cursor, now))
		b.WriteString("\n")
	}

	if page, total := m.eng.Page(); total > 1 {
		b.WriteString(styleMuted.Render(fmt.Sprintf("page %d/%d", page, total)))
		b.WriteString("\n")
	}
	if m.eng.Loading() {
		b.WriteString(m.spin.View() + styleMuted.Render(" refreshing"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderTaskRow(t model.Task, selected bool, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = styleDone.Render("[x]")
	}
	pr := priorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))

	title := t.Title
	if t.Completed {
		title = styleMuted.Render(title)
	}

	meta := []string{}
	if t.DueDate != nil {
		due := t.DueDate.Local().Format("Jan 02")
		if t.Overdue(now) {
			due = styleOverdue.Render(due + "!")
		}
		meta = append(meta, due)
	}
	if len(t.Tags) > 0 {
		meta = append(meta, styleMuted.Render("#"+strings.Join(t.Tags, " #")))
	}
	if t.OwnerUsername != "" {
		meta = append(meta, styleMuted.Render("@"+t.OwnerUsername))
	}
	if t.MyPermission != "" {
		meta = append(meta, styleMuted.Render("("+string(t.MyPermission)+")"))
	}
	if t.ShareCount > 0 {
		meta = append(meta, styleMuted.Render(fmt.Sprintf("+%d", t.ShareCount)))
	}

	row := fmt.Sprintf("%s %s %s", check, pr, title)
	if len(meta) > 0 {
		row += "  " + strings.Join(meta, " ")
	}
	row = xansi.Truncate(row, max(20, m.width-2), "…")
	if selected {
		return styleSelected.Render("▸ " + row)
	}
	return "  " + row
}

func (m appModel) renderActivity() string {
	if len(m.activity) == 0 {
		return styleMuted.Render("no activity")
	}
	var b strings.Builder
	for i, e := range m.activity {
		line := fmt.Sprintf("%s  %s %s",
			styleMuted.Render(e.CreatedAt.Local().Format("Jan 02 15:04")),
			styleTitle.Render(e.Username),
			e.Action,
		)
		if e.Detail != "" {
			line += ": " + e.Detail
		}
		line = xansi.Truncate(line, max(20, m.width-2), "…")
		if i == m.cursor {
			line = styleSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderDetail() string {
	t := m.detail
	var b strings.Builder
	b.WriteString(styleTitle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(fmt.Sprintf("%s  %s", t.ID, t.Priority)))
	if t.DueDate != nil {
		b.WriteString(styleMuted.Render("  due " + t.DueDate.Local().Format("2006-01-02")))
	}
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(renderMarkdown(t.Description, max(20, m.width-6)))
		b.WriteString("\n")
	}
	return stylePanel.Render(b.String())
}

func (m appModel) renderForm() string {
	title := "New task"
	if m.overlay == overlayEdit {
		title = "Edit task"
	}
	rows := []string{
		styleTitle.Render(title),
		formRow("Title", m.form.title.View(), m.form.focus == 0),
		formRow("Description", m.form.description.View(), m.form.focus == 1),
		formRow("Due", m.form.due.View(), m.form.focus == 2),
		formRow("Tags", m.form.tags.View(), m.form.focus == 3),
		formRow("Priority", priorityStyle(m.form.priority).Render(string(m.form.priority))+styleMuted.Render("  (space cycles)"), m.form.focus == 4),
	}
	return stylePanel.Render(strings.Join(rows, "\n"))
}

func formRow(label, value string, focused bool) string {
	l := styleMuted.Render(fmt.Sprintf("%-12s", label))
	if focused {
		l = styleTitle.Render(fmt.Sprintf("%-12s", label))
	}
	return l + value
}

func (m appModel) renderConfirm() string {
	return stylePanel.Render(fmt.Sprintf("Delete %q? (y/n)", m.pending.Title))
}

func (m appModel) renderComments() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Comments: " + m.comments.task.Title))
	b.WriteString("\n")
	if !m.comments.loaded {
		b.WriteString(styleMuted.Render("loading..."))
		return stylePanel.Render(b.String())
	}
	comments := m.comments.thread.Comments()
	if len(comments) == 0 {
		b.WriteString(styleMuted.Render("no comments"))
		b.WriteString("\n")
	}
	for i, c := range comments {
		head := fmt.Sprintf("%s %s",
			styleTitle.Render(c.Username),
			styleMuted.Render(c.CreatedAt.Local().Format("Jan 02 15:04")),
		)
		if c.UpdatedAt != nil {
			head += styleMuted.Render(" (edited)")
		}
		if i == m.comments.cursor && !m.comments.writing {
			head = "▸ " + head
		} else {
			head = "  " + head
		}
		b.WriteString(head)
		b.WriteString("\n  ")
		b.WriteString(xansi.Truncate(c.Content, max(20, m.width-8), "…"))
		b.WriteString("\n")
	}
	if m.comments.writing {
		b.WriteString(m.comments.input.View())
		b.WriteString("\n")
	}
	return stylePanel.Render(b.String())
}

func (m appModel) renderShares() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Sharing: " + m.shares.task.Title))
	b.WriteString("\n")
	if !m.shares.loaded {
		b.WriteString(styleMuted.Render("loading..."))
		return stylePanel.Render(b.String())
	}
	shares := m.shares.panel.Shares()
	if len(shares) == 0 {
		b.WriteString(styleMuted.Render("not shared"))
		b.WriteString("\n")
	}
	for i, s := range shares {
		row := fmt.Sprintf("%s  %s  %s",
			styleTitle.Render(s.SharedWithUsername),
			s.Permission,
			styleMuted.Render(s.GrantedAt.Local().Format("2006-01-02")),
		)
		if i == m.shares.cursor && !m.shares.granting {
			row = "▸ " + row
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if m.shares.granting {
		b.WriteString(m.shares.input.View())
		b.WriteString(styleMuted.Render("  perm: " + string(m.shares.grantPerm) + " (tab toggles)"))
		b.WriteString("\n")
	}
	return stylePanel.Render(b.String())
}

func (m appModel) renderFooter() string {
	help := "tab views  / search  f priority  t status  ←/→ page  space toggle  n new  e edit  x delete  c comments  s share  enter detail  q quit"
	switch m.overlay {
	case overlayDetail:
		help = "esc close"
	case overlayCreate, overlayEdit:
		help = "tab next field  enter save  esc cancel"
	case overlayComments:
		help = "a add  d delete  esc close"
	case overlayShares:
		help = "a grant  p toggle perm  x revoke  esc close"
	case overlayConfirmDelete:
		help = "y confirm  n cancel"
	}
	line := styleMuted.Render(xansi.Truncate(help, max(20, m.width-1), "…"))
	if m.flash != "" {
		line = styleFlash.Render(xansi.Truncate(m.flash, max(20, m.width-1), "…")) + "\n" + line
	}
	return line
}
