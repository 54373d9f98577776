package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"faros-cli/internal/docs"
)

func newGuideCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show a built-in guide topic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("topics:\n  " + strings.Join(docs.Topics(), "\n  "))
				return nil
			}
			body, ok := docs.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown topic %q (try `faros guide`)", args[0])
			}
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Println(body)
				return nil
			}
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				fmt.Println(body)
				return nil
			}
			out, err := r.Render(body)
			if err != nil {
				fmt.Println(body)
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}
}
