package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/api"
	"faros-cli/internal/session"
)

// Run starts the interactive dashboard and blocks until the user quits.
func Run(client *api.Client, sess *session.Session, log *slog.Logger) error {
	applyColorProfile()
	m := newAppModel(client, sess, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
