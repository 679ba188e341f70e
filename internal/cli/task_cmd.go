package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	var study string

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage recruitment tasks",
	}
	studyFlag(cmd, &study)

	cmd.AddCommand(
		newTaskAddCmd(app, &study),
		newTaskListCmd(app, &study),
		newTaskLinkCmd(app, &study, true),
		newTaskLinkCmd(app, &study, false),
		newTaskStatusCmd(app, &study),
		newTaskRemoveCmd(app, &study),
	)

	return cmd
}

func newTaskAddCmd(app *App, study *string) *cobra.Command {
	var title string
	var required int
	var linked bool
	var items []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recruitment task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}

			task := &domain.RecruitmentTask{
				StudyID:           studyID,
				Title:             title,
				LinkedRecruitment: linked,
			}
			if cmd.Flags().Changed("required") {
				task.StudentsRequired = domain.IntPtr(required)
			}
			for _, ref := range items {
				id, err := resolveItemID(ctx, app, studyID, ref)
				if err != nil {
					return err
				}
				task.LinkedItems = append(task.LinkedItems, id)
			}

			res, err := app.Recruitment.CreateTask(ctx, task)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created task %s %s\n",
					formatter.StyleGreen.Render("✔"), formatter.Bold(task.Title), formatter.TruncID(task.ID))
			}
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().IntVar(&required, "required", 0, "Students required")
	cmd.Flags().BoolVar(&linked, "linked-recruitment", false, "Track recruitment against linked line items")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item to link (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App, study *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recruitment tasks with their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}
			tasks, err := app.Recruitment.ListTasks(ctx, studyID)
			if err != nil {
				return err
			}
			items, err := app.LineItems.ListByStudy(ctx, studyID)
			if err != nil {
				return err
			}

			titles := make(map[string]string, len(items))
			for _, it := range items {
				titles[it.ID] = it.Title
			}
			rows := make([]formatter.TaskRow, 0, len(tasks))
			for _, t := range tasks {
				n, err := recruitedCount(ctx, app, t.ID)
				if err != nil {
					return err
				}
				rows = append(rows, formatter.TaskRow{Task: t, Recruited: n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(rows, titles))
			return nil
		},
	}
}

// newTaskLinkCmd builds "task link" or "task unlink".
func newTaskLinkCmd(app *App, study *string, link bool) *cobra.Command {
	use, short := "link <task> <item>", "Link a line item to a task"
	if !link {
		use, short = "unlink <task> <item>", "Remove a line item from a task"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, studyID, args[0])
			if err != nil {
				return err
			}
			itemID, err := resolveItemID(ctx, app, studyID, args[1])
			if err != nil {
				return err
			}

			var res *service.ReconcileResult
			if link {
				res, err = app.Recruitment.LinkItem(ctx, taskID, itemID)
			} else {
				res, err = app.Recruitment.UnlinkItem(ctx, taskID, itemID)
			}
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
}

func newTaskStatusCmd(app *App, study *string) *cobra.Command {
	return &cobra.Command{
		Use:       "status <task> <todo|in_progress|done>",
		Short:     "Set a task's workflow status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"todo", "in_progress", "done"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !domain.ValidTaskStatuses[args[1]] {
				return fmt.Errorf("invalid task status %q", args[1])
			}
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, studyID, args[0])
			if err != nil {
				return err
			}
			task, err := app.Recruitment.GetTask(ctx, taskID)
			if err != nil {
				return err
			}
			task.Status = domain.TaskStatus(args[1])
			res, err := app.Recruitment.UpdateTask(ctx, task)
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
}

func newTaskRemoveCmd(app *App, study *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task>",
		Short: "Delete a recruitment task and its applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, *study)
			if err != nil {
				return err
			}
			taskID, err := resolveTaskID(ctx, app, studyID, args[0])
			if err != nil {
				return err
			}
			res, err := app.Recruitment.DeleteTask(ctx, taskID)
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
}

func recruitedCount(ctx context.Context, app *App, taskID string) (int, error) {
	apps, err := app.Recruitment.ListApplications(ctx, taskID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range apps {
		if a.CountsAsRecruited() {
			n++
		}
	}
	return n, nil
}

// reportReconcile prints the reconciliation that followed a mutation. A
// result that comes with an error is still shown: its aggregates were
// computed even though they were not stored.
func reportReconcile(w io.Writer, res *service.ReconcileResult, err error) error {
	if res != nil {
		fmt.Fprintln(w, formatter.FormatReconcileResult(res.Stats))
	}
	return err
}
