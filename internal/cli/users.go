package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Look up other users",
	}
	cmd.AddCommand(newUsersSearchCmd(app))
	return cmd
}

func newUsersSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search users by username prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			users, err := app.client.SearchUsers(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("search users: %w", err)
			}
			if app.useJSON() {
				return printJSON(users)
			}
			if len(users) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, u := range users {
				fmt.Printf("%s <%s>\n", u.Username, u.Email)
			}
			return nil
		},
	}
}
