package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newContextCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage uploaded context files",
	}

	upload := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload context documents to the current project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}

			files := make(map[string][]byte, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				files[filepath.Base(path)] = content
			}

			_, err := app.Store.UploadFiles(cmd.Context(), files)
			flushToast(app)
			return err
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the current project's files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			for _, f := range app.Store.ContextFiles() {
				fmt.Printf("%-36s  %s\n", f.ID, f.FileName)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <file-id>",
		Short: "Delete an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.DeleteContextFile(cmd.Context(), args[0])
			flushToast(app)
			return err
		},
	}

	text := &cobra.Command{
		Use:   "text",
		Short: "Print the combined context text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			fmt.Println(app.Store.FetchAggregatedContext(cmd.Context()))
			return nil
		},
	}

	cmd.AddCommand(upload, list, rm, text)
	return cmd
}
