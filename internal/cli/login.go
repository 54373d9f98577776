package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"faros-cli/internal/api"
	"faros-cli/internal/cache"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate against the server and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			resp, err := app.client.Login(cmd.Context(), api.LoginRequest{
				Username: username,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			user := resp.User
			if user.Username == "" {
				user.Username = username
			}
			if err := app.sess.Begin(resp.AccessToken, user.Username, user.Email); err != nil {
				return err
			}
			app.log.Info("logged in", "username", user.Username)
			fmt.Printf("logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and drop cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username := app.sess.Username()
			if err := app.sess.End(); err != nil {
				return err
			}
			if username != "" {
				if store, err := cache.Open(); err == nil {
					_ = store.Clear(cmd.Context(), username)
				}
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}
			user, err := app.client.Register(cmd.Context(), api.RegisterRequest{
				Username: args[0],
				Email:    args[1],
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Printf("registered %s, now run `faros login %s`\n", user.Username, user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			user, err := app.client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}
			if app.useJSON() {
				return printJSON(user)
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
