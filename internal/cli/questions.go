package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuestionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Work through the guided Q&A flow",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the question catalog with saved answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			catalog := app.Store.FetchQuestions(cmd.Context())
			for _, section := range catalog.Sections {
				fmt.Printf("%s\n", section.Title)
				for _, sub := range section.Subsections {
					for _, q := range sub.Questions {
						status := " "
						if resp := app.Store.ResponseByQuestionID(q.ID); resp != nil {
							status = "~"
							if resp.Confirmed {
								status = "+"
							}
						}
						fmt.Printf("  [%s] %-24s %s\n", status, q.ID, q.Text)
					}
				}
			}
			return nil
		},
	}

	prefill := &cobra.Command{
		Use:   "prefill",
		Short: "Auto-answer questions from uploaded context",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			_, err := app.Store.PrefillQuestions(cmd.Context())
			flushToast(app)
			return err
		},
	}

	var confirmed bool
	answer := &cobra.Command{
		Use:   "answer <question-id> <text>",
		Short: "Save an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.SaveResponse(cmd.Context(), args[0], args[1], confirmed)
			flushToast(app)
			return err
		},
	}
	answer.Flags().BoolVar(&confirmed, "confirm", false, "mark the answer confirmed")

	confirm := &cobra.Command{
		Use:   "confirm <question-id>",
		Short: "Confirm a saved answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			err := app.Store.ConfirmResponse(cmd.Context(), args[0], true)
			flushToast(app)
			return err
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show answer completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := restoreProject(cmd.Context(), app); err != nil {
				return err
			}
			s := app.Store.FetchStats(cmd.Context())
			fmt.Printf("Answered %d/%d, confirmed %d (%d%% complete)\n",
				s.Answered, s.TotalQuestions, s.Confirmed, s.CompletionPercentage)
			return nil
		},
	}

	cmd.AddCommand(list, prefill, answer, confirm, stats)
	return cmd
}
