package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts (total, completed, incomplete, overdue)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			stats, err := app.client.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			if app.useJSON() {
				return printJSON(stats)
			}
			fmt.Println(renderTable(
				[]string{"Total", "Completed", "Incomplete", "Overdue"},
				[][]string{{
					fmt.Sprint(stats.Total),
					fmt.Sprint(stats.Completed),
					fmt.Sprint(stats.Incomplete),
					fmt.Sprint(stats.Overdue),
				}},
			))
			return nil
		},
	}
}
