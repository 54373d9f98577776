package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"faros-cli/internal/dashboard"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write task comments",
	}
	cmd.AddCommand(newCommentsListCmd(app))
	cmd.AddCommand(newCommentsAddCmd(app))
	cmd.AddCommand(newCommentsEditCmd(app))
	cmd.AddCommand(newCommentsDeleteCmd(app))
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List comments on a task, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			comments, err := app.client.ListComments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("list comments: %w", err)
			}
			if app.useJSON() {
				return printJSON(comments)
			}
			if len(comments) == 0 {
				fmt.Println("no comments")
				return nil
			}
			for _, c := range comments {
				edited := ""
				if c.UpdatedAt != nil {
					edited = " (edited)"
				}
				fmt.Printf("%s  %s  %s%s\n", c.ID, c.Username, formatTimestamp(c.CreatedAt), edited)
				fmt.Printf("  %s\n", strings.ReplaceAll(c.Content, "\n", "\n  "))
			}
			return nil
		},
	}
}

func newCommentsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <content>",
		Short: "Add a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if strings.TrimSpace(args[1]) == "" {
				return dashboard.ErrEmptyComment
			}
			comment, err := app.client.AddComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("add comment: %w", err)
			}
			if app.useJSON() {
				return printJSON(comment)
			}
			fmt.Printf("added comment %s\n", comment.ID)
			return nil
		},
	}
}

func newCommentsEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <comment-id> <content>",
		Short: "Edit your own comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if strings.TrimSpace(args[1]) == "" {
				return dashboard.ErrEmptyComment
			}
			comment, err := app.client.UpdateComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("edit comment: %w", err)
			}
			if app.useJSON() {
				return printJSON(comment)
			}
			fmt.Printf("updated comment %s\n", comment.ID)
			return nil
		},
	}
}

func newCommentsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := app.client.DeleteComment(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete comment: %w", err)
			}
			fmt.Printf("deleted comment %s\n", args[0])
			return nil
		},
	}
}
