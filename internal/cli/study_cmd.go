package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newStudyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Manage studies",
	}

	cmd.AddCommand(
		newStudyCreateCmd(app),
		newStudyListCmd(app),
		newStudyDatesCmd(app),
		newStudyRemoveCmd(app),
	)

	return cmd
}

func newStudyCreateCmd(app *App) *cobra.Command {
	var name, company, start, end string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a study",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := dateFlag("start", start)
			if err != nil {
				return err
			}
			endDate, err := dateFlag("end", end)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			s := &domain.Study{
				ID:        uuid.New().String(),
				Name:      name,
				Company:   company,
				StartDate: startDate,
				EndDate:   endDate,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := app.Studies.Create(cmd.Context(), s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created study %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(s.Name), formatter.TruncID(s.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Study name")
	cmd.Flags().StringVar(&company, "company", "", "Sponsoring company")
	cmd.Flags().StringVar(&start, "start", "", "Anchor start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Anchor end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsRequiredTogether("start", "end")

	return cmd
}

func newStudyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List studies",
		RunE: func(cmd *cobra.Command, args []string) error {
			studies, err := app.Studies.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStudyList(studies))
			return nil
		},
	}
}

func newStudyDatesCmd(app *App) *cobra.Command {
	var start, end string
	var clearAnchor bool

	cmd := &cobra.Command{
		Use:   "dates <study>",
		Short: "Anchor a study to calendar dates, or clear the anchor",
		Long: `Set both --start and --end to switch the study's timeline to dates.
Use --clear to return to relative weeks; dated line items are converted
to the week they fall in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveStudyID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var startDate, endDate *time.Time
			if !clearAnchor {
				if startDate, err = dateFlag("start", start); err != nil {
					return err
				}
				if endDate, err = dateFlag("end", end); err != nil {
					return err
				}
				if startDate == nil || endDate == nil {
					return fmt.Errorf("--start and --end are required unless --clear is given")
				}
			}

			study, err := app.Studies.UpdateDates(ctx, id, startDate, endDate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStudyDates(study))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Anchor start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Anchor end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearAnchor, "clear", false, "Remove the anchor and use relative weeks")
	cmd.MarkFlagsMutuallyExclusive("clear", "start")
	cmd.MarkFlagsMutuallyExclusive("clear", "end")

	return cmd
}

func newStudyRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <study>",
		Short: "Delete a study with its line items and recruitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveStudyID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Studies.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed study %s\n", formatter.StyleGreen.Render("✔"), formatter.TruncID(id))
			return nil
		},
	}
}

// loadStudy resolves and fetches the study named by a --study flag.
func loadStudy(ctx context.Context, app *App, input string) (*domain.Study, error) {
	id, err := resolveStudyID(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return app.Studies.GetByID(ctx, id)
}
