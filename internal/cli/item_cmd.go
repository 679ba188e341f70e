package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	var study string

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage budget line items",
	}
	studyFlag(cmd, &study)

	cmd.AddCommand(
		newItemAddCmd(app, &study),
		newItemListCmd(app, &study),
		newItemRemoveCmd(app, &study),
	)

	return cmd
}

func newItemAddCmd(app *App, study *string) *cobra.Command {
	var start, end boundValue
	var title, amount, color, units, rate, hours, hourlyRate string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a line item to a study's budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadStudy(ctx, app, *study)
			if err != nil {
				return err
			}
			schedule, err := scheduleFromBounds(start, end)
			if err != nil {
				return err
			}
			if schedule.IsDated() && s.Mode() != domain.ModeAbsolute {
				return fmt.Errorf("study %s has no anchor dates; use week bounds like S1", s.Name)
			}

			now := time.Now().UTC()
			item := &domain.BudgetLineItem{
				StudyID:   s.ID,
				Color:     domain.DefaultColor,
				Schedule:  schedule,
				CreatedAt: now,
				UpdatedAt: now,
			}
			inputs := []struct {
				field domain.LineItemField
				raw   string
			}{
				{domain.FieldTitle, title},
				{domain.FieldAmount, amount},
				{domain.FieldColor, color},
				{domain.FieldUnits, units},
				{domain.FieldUnitRate, rate},
				{domain.FieldHours, hours},
				{domain.FieldHourlyRate, hourlyRate},
			}
			for _, in := range inputs {
				if in.raw == "" {
					continue
				}
				if _, err := item.SetField(in.field, in.raw, now); err != nil {
					return err
				}
			}

			id, err := app.LineItems.Create(ctx, item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(title),
				formatter.ScheduleLabel(schedule), formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Line item title")
	cmd.Flags().Var(&start, "start", "First week (S<n>) or date (YYYY-MM-DD)")
	cmd.Flags().Var(&end, "end", "Last week or date; defaults to --start")
	cmd.Flags().StringVar(&amount, "amount", "", "Fixed amount")
	cmd.Flags().StringVar(&color, "color", "", "Bar color (#rrggbb)")
	cmd.Flags().StringVar(&units, "units", "", "Unit count, priced with --rate")
	cmd.Flags().StringVar(&rate, "rate", "", "Price per unit")
	cmd.Flags().StringVar(&hours, "hours", "", "Hours, priced with --hourly-rate")
	cmd.Flags().StringVar(&hourlyRate, "hourly-rate", "", "Price per hour")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	cmd.MarkFlagsRequiredTogether("units", "rate")
	cmd.MarkFlagsRequiredTogether("hours", "hourly-rate")

	return cmd
}

func newItemListCmd(app *App, study *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show a study's budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadStudy(ctx, app, *study)
			if err != nil {
				return err
			}
			items, err := app.LineItems.ListByStudy(ctx, s.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLineItemList(s, items))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App, study *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item>",
		Short: "Delete a line item and unlink it from recruitment tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}
			id, err := resolveItemID(ctx, app, studyID, args[0])
			if err != nil {
				return err
			}
			if err := app.LineItems.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed line item %s\n", formatter.StyleGreen.Render("✔"), formatter.TruncID(id))
			return nil
		},
	}
}
