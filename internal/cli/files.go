package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage task attachments",
	}
	cmd.AddCommand(newFilesListCmd(app))
	cmd.AddCommand(newFilesUploadCmd(app))
	cmd.AddCommand(newFilesDownloadCmd(app))
	cmd.AddCommand(newFilesDeleteCmd(app))
	return cmd
}

func newFilesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List attachments on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			files, err := app.client.ListFiles(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("list files: %w", err)
			}
			if app.useJSON() {
				return printJSON(files)
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{
					f.ID,
					f.Filename,
					formatSize(f.Size),
					formatTimestamp(f.UploadedAt),
				})
			}
			fmt.Println(renderTable([]string{"ID", "Name", "Size", "Uploaded"}, rows))
			return nil
		},
	}
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func newFilesUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <task-id> <path>",
		Short: "Attach a local file to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			attachment, err := app.client.UploadFile(cmd.Context(), args[0], filepath.Base(args[1]), f)
			if err != nil {
				return fmt.Errorf("upload file: %w", err)
			}
			if app.useJSON() {
				return printJSON(attachment)
			}
			fmt.Printf("uploaded %s (%s)\n", attachment.Filename, attachment.ID)
			return nil
		},
	}
}

func newFilesDownloadCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download an attachment (stdout unless --out is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if out == "" {
				return app.client.DownloadFile(cmd.Context(), args[0], os.Stdout)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := app.client.DownloadFile(cmd.Context(), args[0], f); err != nil {
				f.Close()
				os.Remove(out)
				return fmt.Errorf("download file: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write to this path instead of stdout")
	return cmd
}

func newFilesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := app.client.DeleteFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete file: %w", err)
			}
			fmt.Printf("deleted file %s\n", args[0])
			return nil
		},
	}
}
