package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"faros-cli/internal/model"
)

func newActivityCmd(app *App) *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity feed (all visible tasks, or one with --task)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			var (
				entries []model.ActivityEntry
				err     error
			)
			if taskID != "" {
				entries, err = app.client.TaskActivity(cmd.Context(), taskID)
			} else {
				entries, err = app.client.GlobalActivity(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("fetch activity: %w", err)
			}
			if app.useJSON() {
				return printJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Println("no activity")
				return nil
			}
			for _, e := range entries {
				line := fmt.Sprintf("%s  %s %s", formatTimestamp(e.CreatedAt), e.Username, e.Action)
				if e.Detail != "" {
					line += ": " + e.Detail
				}
				if taskID == "" && e.TaskID != "" {
					line += " (" + e.TaskID + ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "Limit to one task's history")
	return cmd
}
