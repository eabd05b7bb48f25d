// Package cli implements the clarity command tree. Commands drive the same
// store the web UI uses; toasts surface as stderr lines.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmclarity/clarity/internal/auth"
	"github.com/pmclarity/clarity/internal/config"
	"github.com/pmclarity/clarity/internal/identity"
	"github.com/pmclarity/clarity/internal/sessions"
	"github.com/pmclarity/clarity/internal/store"
)

// App bundles the wired client layers for command handlers.
type App struct {
	Config   config.Config
	Provider *identity.RESTProvider
	Auth     *auth.State
	Sessions *sessions.Store
	Store    *store.Store
}

// NewRootCmd builds the clarity command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "clarity",
		Short:         "Turn context documents into a PRD through guided Q&A",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newSignupCmd(app),
		newWhoamiCmd(app),
		newProjectsCmd(app),
		newContextCmd(app),
		newQuestionsCmd(app),
		newFeaturesCmd(app),
		newTemplatesCmd(app),
		newPRDCmd(app),
	)
	return root
}

// flushToast prints the pending toast, if any, to stderr.
func flushToast(app *App) {
	if toast := app.Store.Toast(); toast != nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", toast.Type, toast.Message)
	}
}

// restoreProject re-selects the persisted project so project-scoped commands
// work across invocations.
func restoreProject(ctx context.Context, app *App) error {
	projectID, err := app.Sessions.CurrentProject()
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return errors.New("no project selected; run: clarity projects select <id>")
		}
		return err
	}

	app.Store.FetchProjects(ctx)
	if err := app.Store.SelectProject(ctx, projectID); err != nil {
		return fmt.Errorf("selecting project %s: %w", projectID, err)
	}
	return nil
}
