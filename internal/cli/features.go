package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmclarity/clarity/internal/apiclient"
)

func newFeaturesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Manage product features",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List features, active first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			printFeatures := func(header string, features []apiclient.Feature) {
				if len(features) == 0 {
					return
				}
				fmt.Println(header)
				for _, f := range features {
					fmt.Printf("  %-36s  %s\n", f.ID, f.Name)
				}
			}
			printFeatures("Active:", app.Store.ActiveFeatures())
			printFeatures("Parking lot:", app.Store.ParkingLotFeatures())
			return nil
		},
	}

	extract := &cobra.Command{
		Use:   "extract",
		Short: "Mine features from uploaded context",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			_, err := app.Store.ExtractFeatures(cmd.Context())
			flushToast(app)
			return err
		},
	}

	var description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			_, err := app.Store.CreateFeature(cmd.Context(), args[0], description)
			flushToast(app)
			return err
		},
	}
	add.Flags().StringVar(&description, "description", "", "feature description")

	var park bool
	selectCmd := &cobra.Command{
		Use:   "select <feature-id>",
		Short: "Move a feature into the PRD (or the parking lot with --park)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			_, err := app.Store.ToggleFeatureSelection(cmd.Context(), args[0], !park)
			flushToast(app)
			return err
		},
	}
	selectCmd.Flags().BoolVar(&park, "park", false, "move to the parking lot instead")

	rm := &cobra.Command{
		Use:   "rm <feature-id>",
		Short: "Delete a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.DeleteFeature(cmd.Context(), args[0])
			flushToast(app)
			return err
		},
	}

	cmd.AddCommand(list, extract, add, selectCmd, rm)
	return cmd
}
