package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
	"faros-cli/internal/perm"
)

// commentsModel is the comment thread overlay for one task.
type commentsModel struct {
	task   model.Task
	thread *dashboard.CommentThread

	input   textinput.Model
	writing bool
	cursor  int
	loaded  bool
}

func newCommentsModel(svc dashboard.CommentService, task model.Task) *commentsModel {
	in := textinput.New()
	in.Placeholder = "write a comment"
	in.Prompt = "> "
	in.CharLimit = 2000
	return &commentsModel{
		task:   task,
		thread: dashboard.NewCommentThread(svc, task.ID),
		input:  in,
	}
}

func (c *commentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		err := c.thread.Load(context.Background())
		c.loaded = true
		return commentsLoadedMsg{err: err}
	}
}

// handleKey returns done=true when the overlay should close.
func (c *commentsModel) handleKey(msg tea.KeyMsg, username string) (bool, tea.Cmd) {
	if c.writing {
		switch msg.String() {
		case "esc":
			c.writing = false
			c.input.Blur()
			return false, nil
		case "enter":
			content := c.input.Value()
			if strings.TrimSpace(content) == "" {
				return false, nil
			}
			c.writing = false
			c.input.Blur()
			c.input.SetValue("")
			thread := c.thread
			return false, func() tea.Msg {
				_, err := thread.Add(context.Background(), content)
				return opDoneMsg{err: err}
			}
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return false, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return true, nil
	case "a":
		c.writing = true
		return false, c.input.Focus()
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
		return false, nil
	case "down", "j":
		if c.cursor < len(c.thread.Comments())-1 {
			c.cursor++
		}
		return false, nil
	case "d":
		comments := c.thread.Comments()
		if c.cursor >= len(comments) {
			return false, nil
		}
		target := comments[c.cursor]
		isOwner := c.task.OwnerUsername == username || c.task.OwnerUsername == ""
		if !perm.CanDeleteComment(target, username, isOwner) {
			return false, nil
		}
		thread := c.thread
		// Optimistic removal; the thread restores its snapshot on failure.
		return false, tea.Batch(func() tea.Msg {
			return opDoneMsg{err: thread.Delete(context.Background(), target.ID)}
		}, redrawSoon())
	}
	return false, nil
}
