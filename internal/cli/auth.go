package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var federated bool

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in with email and password, or a federated provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if federated {
				url := app.Provider.AuthCodeURL("clarity-cli")
				if url == "" {
					return fmt.Errorf("federated sign-in is not configured")
				}
				fmt.Printf("Visit this URL to authorize, then paste the code:\n%s\n> ", url)
				code, err := readLine()
				if err != nil {
					return err
				}
				if _, err := app.Auth.SignInWithProvider(ctx, code); err != nil {
					return fmt.Errorf("%s", app.Auth.LastError())
				}
			} else {
				email := ""
				if len(args) > 0 {
					email = args[0]
				} else {
					fmt.Print("Email: ")
					var err error
					if email, err = readLine(); err != nil {
						return err
					}
				}
				fmt.Print("Password: ")
				password, err := readLine()
				if err != nil {
					return err
				}
				if _, err := app.Auth.SignIn(ctx, email, password); err != nil {
					return fmt.Errorf("%s", app.Auth.LastError())
				}
			}

			if session := app.Provider.Session(); session != nil {
				if err := app.Sessions.Save(*session); err != nil {
					return err
				}
			}
			fmt.Printf("Signed in as %s\n", app.Auth.DisplayName())
			return nil
		},
	}

	cmd.Flags().BoolVar(&federated, "provider", false, "sign in with the federated OAuth provider")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			if err := app.Sessions.Delete(); err != nil {
				return err
			}
			app.Store.Reset()
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newSignupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Password: ")
			password, err := readLine()
			if err != nil {
				return err
			}

			if _, err := app.Auth.SignUp(cmd.Context(), args[0], password); err != nil {
				return fmt.Errorf("%s", app.Auth.LastError())
			}

			if session := app.Provider.Session(); session != nil {
				if err := app.Sessions.Save(*session); err != nil {
					return err
				}
			}
			fmt.Printf("Account created for %s\n", args[0])
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Auth.IsAuthenticated() {
				fmt.Println("Not signed in")
				return nil
			}
			user := app.Auth.User()
			fmt.Printf("%s (%s)\n", app.Auth.DisplayName(), user.Email)
			return nil
		},
	}
}

func readLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
