package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := app.Store.FetchProjects(cmd.Context())
			if msg := app.Store.LastError(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			if len(projects) == 0 {
				fmt.Println("No projects yet; create one with: clarity projects create <name>")
				return nil
			}
			for _, p := range projects {
				marker := " "
				if current := app.Store.CurrentProject(); current != nil && current.ID == p.ID {
					marker = "*"
				}
				fmt.Printf("%s %-36s  %s\n", marker, p.ID, p.Name)
			}
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project and select it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := app.Store.CreateProject(cmd.Context(), args[0])
			defer flushToast(app)
			if err != nil {
				return err
			}
			if err := app.Sessions.SaveCurrentProject(project.ID); err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s)\n", project.Name, project.ID)
			return nil
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Select the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.FetchProjects(cmd.Context())
			if err := app.Store.SelectProject(cmd.Context(), args[0]); err != nil {
				flushToast(app)
				return err
			}
			if err := app.Sessions.SaveCurrentProject(args[0]); err != nil {
				return err
			}
			fmt.Printf("Selected project %s\n", app.Store.CurrentProject().Name)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.FetchProjects(cmd.Context())
			err := app.Store.DeleteProject(cmd.Context(), args[0])
			defer flushToast(app)
			if err != nil {
				return err
			}
			if current := app.Store.CurrentProject(); current != nil {
				return app.Sessions.SaveCurrentProject(current.ID)
			}
			return app.Sessions.ClearCurrentProject()
		},
	}

	cmd.AddCommand(list, create, selectCmd, deleteCmd)
	return cmd
}
