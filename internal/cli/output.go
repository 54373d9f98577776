package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"faros-cli/internal/model"
)

// useJSON decides the output mode: explicit --json wins, otherwise tables on
// a TTY and JSON when piped.
func (a *App) useJSON() bool {
	if a.JSONOut {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func taskRows(tasks []model.Task, now time.Time) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			checkbox(t.Completed),
			t.Title,
			string(t.Priority),
			formatDue(t, now),
			strings.Join(t.Tags, ","),
			t.OwnerUsername,
		})
	}
	return rows
}

var taskHeaders = []string{"ID", "Done", "Title", "Priority", "Due", "Tags", "Owner"}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func formatDue(t model.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	s := t.DueDate.Local().Format("2006-01-02")
	if t.Overdue(now) {
		return s + " (overdue)"
	}
	return s
}

func formatTimestamp(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04")
}

func printTaskPage(a *App, tasks []model.Task, page, pages int) error {
	if a.useJSON() {
		return printJSON(map[string]any{"tasks": tasks, "page": page, "pages": pages})
	}
	fmt.Println(renderTable(taskHeaders, taskRows(tasks, time.Now())))
	if pages > 1 {
		fmt.Printf("page %d of %d\n", page, pages)
	}
	return nil
}
