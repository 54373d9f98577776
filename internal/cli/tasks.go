package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"faros-cli/internal/api"
	"faros-cli/internal/cache"
	"faros-cli/internal/dashboard"
	"faros-cli/internal/model"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		search   string
		priority string
		status   string
		page     int
		shared   bool
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (personal by default, --shared for tasks shared with you)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			ctx := cmd.Context()
			view := model.ViewPersonal
			if shared {
				view = model.ViewShared
			}

			if offline {
				store, err := cache.Open()
				if err != nil {
					return err
				}
				snap, err := store.Get(ctx, app.sess.Username(), view)
				if err != nil {
					return fmt.Errorf("offline list: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "cached at %s\n", formatTimestamp(snap.FetchedAt))
				return printTaskPage(app, snap.Tasks, snap.Page, snap.Pages)
			}

			if shared {
				wrappers, err := app.client.ListSharedTasks(ctx)
				if err != nil {
					return fmt.Errorf("list shared tasks: %w", err)
				}
				tasks := make([]model.Task, 0, len(wrappers))
				for _, w := range wrappers {
					tasks = append(tasks, w.Flatten())
				}
				cacheTasks(ctx, app, view, tasks, 1, 1)
				return printTaskPage(app, tasks, 1, 1)
			}

			filters, err := parseFilters(search, priority, status)
			if err != nil {
				return err
			}
			pg, err := app.client.ListTasks(ctx, dashboard.BuildListParams(filters, page))
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			// Only the unfiltered first page is useful offline.
			if filters.IsZero() && page == 1 {
				cacheTasks(ctx, app, view, pg.Tasks, page, pg.Pages)
			}
			return printTaskPage(app, pg.Tasks, page, pg.Pages)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Substring search on title and description")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority (low|medium|high)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending|completed)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&shared, "shared", false, "List tasks shared with you")
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the last cached page without contacting the server")
	return cmd
}

func cacheTasks(ctx context.Context, app *App, view model.ViewMode, tasks []model.Task, page, pages int) {
	store, err := cache.Open()
	if err != nil {
		app.log.Warn("cache unavailable", "err", err)
		return
	}
	snap := cache.Snapshot{Tasks: tasks, Page: page, Pages: pages, FetchedAt: time.Now()}
	if err := store.Put(ctx, app.sess.Username(), view, snap); err != nil {
		app.log.Warn("cache write failed", "err", err)
	}
}

func parseFilters(search, priority, status string) (model.Filters, error) {
	f := model.Filters{Search: search}
	if priority != "" {
		p, ok := model.ParsePriority(priority)
		if !ok {
			return model.Filters{}, fmt.Errorf("invalid priority %q (want low|medium|high)", priority)
		}
		f.Priority = p
	}
	switch status {
	case "":
	case "pending":
		f.Status = model.StatusPending
	case "completed":
		f.Status = model.StatusCompleted
	default:
		return model.Filters{}, fmt.Errorf("invalid status %q (want pending|completed)", status)
	}
	return f, nil
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			task, err := app.client.GetTask(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch task: %w", err)
			}
			if app.useJSON() {
				return printJSON(task)
			}
			printTaskDetail(task)
			return nil
		},
	}
}

func printTaskDetail(t model.Task) {
	fmt.Printf("%s %s\n", checkbox(t.Completed), t.Title)
	fmt.Printf("  id:       %s\n", t.ID)
	fmt.Printf("  priority: %s\n", t.Priority)
	if t.DueDate != nil {
		fmt.Printf("  due:      %s\n", formatDue(t, time.Now()))
	}
	if len(t.Tags) > 0 {
		fmt.Printf("  tags:     %s\n", strings.Join(t.Tags, ", "))
	}
	if t.OwnerUsername != "" {
		fmt.Printf("  owner:    %s\n", t.OwnerUsername)
	}
	if t.ShareCount > 0 {
		fmt.Printf("  shares:   %d\n", t.ShareCount)
	}
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var (
		description string
		priority    string
		due         string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			title := strings.TrimSpace(args[0])
			if title == "" {
				return dashboard.ErrEmptyTitle
			}
			in := api.TaskCreate{
				Title:       title,
				Description: description,
				Priority:    model.PriorityMedium,
				Tags:        []string{},
			}
			if priority != "" {
				p, ok := model.ParsePriority(priority)
				if !ok {
					return fmt.Errorf("invalid priority %q (want low|medium|high)", priority)
				}
				in.Priority = p
			}
			if due != "" {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}
			if len(tags) > 0 {
				in.Tags = tags
			}
			task, err := app.client.CreateTask(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			if app.useJSON() {
				return printJSON(task)
			}
			fmt.Printf("created %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Task description (Markdown)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high, default medium)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func parseDueDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func newTasksEditCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		due         string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			var patch api.TaskPatch
			if cmd.Flags().Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return dashboard.ErrEmptyTitle
				}
				patch.Title = &t
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, ok := model.ParsePriority(priority)
				if !ok {
					return fmt.Errorf("invalid priority %q (want low|medium|high)", priority)
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("due") {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}
			task, err := app.client.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			if app.useJSON() {
				return printJSON(task)
			}
			fmt.Printf("updated %s\n", task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Replace tags (repeatable)")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			task, err := app.client.GetTask(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch task: %w", err)
			}
			next := !task.Completed
			updated, err := app.client.UpdateTask(cmd.Context(), task.ID, api.TaskPatch{Completed: &next})
			if err != nil {
				return fmt.Errorf("toggle task: %w", err)
			}
			if app.useJSON() {
				return printJSON(updated)
			}
			state := "pending"
			if updated.Completed {
				state = "completed"
			}
			fmt.Printf("%s is now %s\n", updated.ID, state)
			return nil
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := app.client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
