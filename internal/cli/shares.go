package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
)

func newSharesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Manage who a task is shared with",
	}
	cmd.AddCommand(newSharesListCmd(app))
	cmd.AddCommand(newSharesGrantCmd(app))
	cmd.AddCommand(newSharesUpdateCmd(app))
	cmd.AddCommand(newSharesRevokeCmd(app))
	return cmd
}

func newSharesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List grants on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			shares, err := app.client.ListShares(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("list shares: %w", err)
			}
			if app.useJSON() {
				return printJSON(shares)
			}
			rows := make([][]string, 0, len(shares))
			for _, s := range shares {
				rows = append(rows, []string{
					s.SharedWithUsername,
					string(s.Permission),
					formatTimestamp(s.GrantedAt),
				})
			}
			fmt.Println(renderTable([]string{"User", "Permission", "Granted"}, rows))
			return nil
		},
	}
}

func newSharesGrantCmd(app *App) *cobra.Command {
	var permission string

	cmd := &cobra.Command{
		Use:   "grant <task-id> <username>",
		Short: "Share a task with another user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			perm, ok := model.ParseSharePermission(permission)
			if !ok {
				return fmt.Errorf("invalid permission %q (want view|edit)", permission)
			}
			// The panel rejects a duplicate grant before any request is made.
			panel := dashboard.NewSharePanel(app.client, args[0])
			if err := panel.Load(cmd.Context()); err != nil {
				return fmt.Errorf("list shares: %w", err)
			}
			share, err := panel.Grant(cmd.Context(), args[1], perm)
			if err != nil {
				return fmt.Errorf("grant share: %w", err)
			}
			if app.useJSON() {
				return printJSON(share)
			}
			fmt.Printf("shared with %s (%s)\n", share.SharedWithUsername, share.Permission)
			return nil
		},
	}
	cmd.Flags().StringVar(&permission, "permission", "view", "Permission to grant (view|edit)")
	return cmd
}

func newSharesUpdateCmd(app *App) *cobra.Command {
	var permission string

	cmd := &cobra.Command{
		Use:   "update <task-id> <username>",
		Short: "Change an existing grant's permission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			perm, ok := model.ParseSharePermission(permission)
			if !ok {
				return fmt.Errorf("invalid permission %q (want view|edit)", permission)
			}
			share, err := app.client.UpdateShare(cmd.Context(), args[0], args[1], perm)
			if err != nil {
				return fmt.Errorf("update share: %w", err)
			}
			if app.useJSON() {
				return printJSON(share)
			}
			fmt.Printf("%s now has %s access\n", share.SharedWithUsername, share.Permission)
			return nil
		},
	}
	cmd.Flags().StringVar(&permission, "permission", "", "New permission (view|edit)")
	_ = cmd.MarkFlagRequired("permission")
	return cmd
}

func newSharesRevokeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <task-id> <username>",
		Short: "Remove a user's access to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := app.client.RevokeShare(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("revoke share: %w", err)
			}
			fmt.Printf("revoked %s\n", args[1])
			return nil
		},
	}
}
