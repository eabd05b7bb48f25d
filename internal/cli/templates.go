package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage PRD templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := app.Store.FetchTemplates(cmd.Context())
			selected := app.Store.SelectedTemplate()
			for _, t := range templates {
				marker := " "
				if selected != nil && selected.ID == t.ID {
					marker = "*"
				}
				fmt.Printf("%s %-36s  %s\n", marker, t.ID, t.Name)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show a template and its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Store.GetTemplate(cmd.Context(), args[0])
			if err != nil {
				flushToast(app)
				return err
			}
			fmt.Printf("%s\n", t.Name)
			for _, section := range t.Sections {
				fmt.Printf("  %d. %s\n", section.Order, section.Name)
			}
			return nil
		},
	}

	clone := &cobra.Command{
		Use:   "clone <template-id> <new-name>",
		Short: "Clone a template under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Store.CloneTemplate(cmd.Context(), args[0], args[1])
			flushToast(app)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", t.ID, t.Name)
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use <template-id>",
		Short: "Select the template used for generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Store.GetTemplate(cmd.Context(), args[0])
			if err != nil {
				flushToast(app)
				return err
			}
			app.Store.SetSelectedTemplate(t)
			fmt.Printf("Using template %s\n", t.Name)
			return nil
		},
	}

	cmd.AddCommand(list, show, clone, use)
	return cmd
}
