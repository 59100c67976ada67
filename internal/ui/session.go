package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/moodplan/internal/session"
)

func (a *App) loginCmd() *cobra.Command {
	var user, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the token for the plans backend",
		Long: `Save your user name and API token in the OS keyring. The token is used
when storage.driver is "backend".

Example:
  moodplan login --user alice`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if token == "" {
				if !isInteractive() {
					return errors.New("token cannot be empty, pass --token")
				}
				err := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("User").
							Value(&user).
							Validate(validateRequired),
						huh.NewInput().
							Title("Token").
							EchoMode(huh.EchoModePassword).
							Value(&token).
							Validate(validateRequired),
					),
				).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false).Run()
				if err != nil {
					return err
				}
			}

			s, err := session.Login(a.sessions, user, token)
			if err != nil {
				return err
			}
			a.logger.Info("logged in", "user", s.User)
			fmt.Fprintf(a.out, "%s as %s\n", formatSuccess("Logged in"), s.User)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "User name")
	cmd.Flags().StringVar(&token, "token", "", "API token (prompted when empty)")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored backend token",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := session.Logout(a.sessions); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
