package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
)

// sharesModel is the sharing overlay for one owned task.
type sharesModel struct {
	task  model.Task
	panel *dashboard.SharePanel

	input     textinput.Model
	granting  bool
	grantPerm model.SharePermission
	cursor    int
	loaded    bool
}

func newSharesModel(svc dashboard.ShareService, task model.Task) *sharesModel {
	in := textinput.New()
	in.Placeholder = "username"
	in.Prompt = "> "
	in.CharLimit = 80
	return &sharesModel{
		task:      task,
		panel:     dashboard.NewSharePanel(svc, task.ID),
		input:     in,
		grantPerm: model.PermissionView,
	}
}

func (s *sharesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		err := s.panel.Load(context.Background())
		s.loaded = true
		return sharesLoadedMsg{err: err}
	}
}

// handleKey returns done=true when the overlay should close.
func (s *sharesModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if s.granting {
		switch msg.String() {
		case "esc":
			s.granting = false
			s.input.Blur()
			return false, nil
		case "tab":
			s.grantPerm = togglePermission(s.grantPerm)
			return false, nil
		case "enter":
			username := strings.TrimSpace(s.input.Value())
			if username == "" {
				return false, nil
			}
			s.granting = false
			s.input.Blur()
			s.input.SetValue("")
			panel := s.panel
			perm := s.grantPerm
			return false, func() tea.Msg {
				_, err := panel.Grant(context.Background(), username, perm)
				return opDoneMsg{err: err}
			}
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return false, cmd
	}

	switch msg.String() {
	case "esc", "q":
		return true, nil
	case "a":
		s.granting = true
		return false, s.input.Focus()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return false, nil
	case "down", "j":
		if s.cursor < len(s.panel.Shares())-1 {
			s.cursor++
		}
		return false, nil
	case "p":
		shares := s.panel.Shares()
		if s.cursor >= len(shares) {
			return false, nil
		}
		target := shares[s.cursor]
		next := togglePermission(target.Permission)
		panel := s.panel
		return false, func() tea.Msg {
			return opDoneMsg{err: panel.Update(context.Background(), target.SharedWithUsername, next)}
		}
	case "x":
		shares := s.panel.Shares()
		if s.cursor >= len(shares) {
			return false, nil
		}
		target := shares[s.cursor]
		panel := s.panel
		return false, func() tea.Msg {
			return opDoneMsg{err: panel.Revoke(context.Background(), target.SharedWithUsername)}
		}
	}
	return false, nil
}

func togglePermission(p model.SharePermission) model.SharePermission {
	if p == model.PermissionEdit {
		return model.PermissionView
	}
	return model.PermissionEdit
}
