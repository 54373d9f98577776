package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"faros-cli/internal/api"
	"faros-cli/internal/config"
	"faros-cli/internal/logging"
	"faros-cli/internal/session"
	"faros-cli/internal/tui"
)

// App carries flag state and lazily-built dependencies shared by all
// commands.
type App struct {
	ServerURL string
	JSONOut   bool
	LogLevel  string

	cfg       *config.Config
	sess      *session.Session
	client    *api.Client
	log       *slog.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "faros",
		Short:        "Faros task dashboard (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  faros

  # Scriptable commands
  faros login alice
  faros tasks list --status pending
  faros shares grant task-42 bob --permission edit
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.logCloser != nil {
			_ = app.logCloser.Close()
		}
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "", "Faros server URL (overrides config and FAROS_API_URL)")
	cmd.PersistentFlags().BoolVar(&app.JSONOut, "json", false, "Force JSON output (default when piped)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newSharesCmd(app))
	cmd.AddCommand(newFilesCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newGuideCmd(app))

	return cmd
}

func (a *App) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	if a.ServerURL != "" {
		cfg.ServerURL = strings.TrimRight(a.ServerURL, "/")
	}
	if a.LogLevel == "" {
		a.LogLevel = cfg.LogLevel
	}

	logPath := cfg.LogFile
	if logPath == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		logPath = filepath.Join(dir, "faros.log")
	}
	log, closer, err := logging.New(logging.Options{Level: a.LogLevel, Path: logPath})
	if err != nil {
		return err
	}
	a.log = log
	a.logCloser = closer

	sess, err := session.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	a.sess = sess
	a.client = api.New(cfg.ServerURL, sess, log)
	return nil
}

func runTUI(app *App) error {
	if err := app.sess.Require(); err != nil {
		return err
	}
	// Warm the connection before the dashboard mounts; an unreachable server
	// still starts the TUI (the cached snapshot is the fallback there).
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := app.client.Health(ctx); err != nil {
		app.log.Warn("server unreachable", "err", err)
	}
	cancel()
	return tui.Run(app.client, app.sess, app.log)
}

// requireAuth guards commands that talk to authenticated endpoints.
func (a *App) requireAuth() error {
	return a.sess.Require()
}
