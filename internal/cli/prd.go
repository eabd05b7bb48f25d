package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newPRDCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prd",
		Short: "Generate and manage the PRD",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate the PRD from confirmed responses and selected features",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			content, err := app.Store.GeneratePRD(cmd.Context())
			flushToast(app)
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current PRD",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			content, ok := app.Store.FetchPRD(cmd.Context())
			if !ok {
				return fmt.Errorf("no PRD generated yet, run `clarity prd generate`")
			}
			fmt.Println(content)
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <file>",
		Short: "Replace the PRD content with the given markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			err = app.Store.EditPRD(cmd.Context(), string(content))
			flushToast(app)
			return err
		},
	}

	var format, dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the PRD to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			path, err := app.Store.ExportPRD(cmd.Context(), format, dir)
			flushToast(app)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", "md", "export format: md or docx")
	export.Flags().StringVar(&dir, "dir", ".", "directory to write the file into")

	history := &cobra.Command{
		Use:   "history",
		Short: "List saved PRD versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			snapshots := app.Store.FetchPRDHistory(cmd.Context())
			if len(snapshots) == 0 {
				fmt.Println("No saved versions")
				return nil
			}
			for _, snap := range snapshots {
				name := snap.VersionName
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%-36s  %-20s  %s\n", snap.ID, name, snap.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Restore the PRD to a saved version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.RestorePRDVersion(cmd.Context(), args[0])
			flushToast(app)
			return err
		},
	}

	var summary string
	save := &cobra.Command{
		Use:   "save-version <name>",
		Short: "Save the current PRD as a named version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.SavePRDVersion(cmd.Context(), args[0], summary)
			flushToast(app)
			return err
		},
	}
	save.Flags().StringVar(&summary, "summary", "", "what changed in this version")

	regenerate := &cobra.Command{
		Use:   "regenerate <section-name>",
		Short: "Regenerate a single PRD section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.RegeneratePRDSection(cmd.Context(), args[0])
			flushToast(app)
			return err
		},
	}

	changelog := &cobra.Command{
		Use:   "changelog",
		Short: "Print the PRD change history narrative",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			text, err := app.Store.PRDChangelog(cmd.Context())
			if err != nil {
				flushToast(app)
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	diff := &cobra.Command{
		Use:   "diff <version1-id> <version2-id>",
		Short: "Compare two saved PRD versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			d, err := app.Store.ComparePRDVersions(cmd.Context(), args[0], args[1])
			if err != nil {
				flushToast(app)
				return err
			}
			fmt.Printf("+%d -%d lines\n", d.AddedLines, d.RemovedLines)
			for _, s := range d.AddedSections {
				fmt.Printf("added:    %s\n", s)
			}
			for _, s := range d.ModifiedSections {
				fmt.Printf("modified: %s\n", s)
			}
			for _, s := range d.RemovedSections {
				fmt.Printf("removed:  %s\n", s)
			}
			return nil
		},
	}

	cmd.AddCommand(generate, show, edit, export, history, restore, save, regenerate, changelog, diff)
	return cmd
}
