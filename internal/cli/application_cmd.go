package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
)

func newApplicationCmd(app *App) *cobra.Command {
	var study, task string

	cmd := &cobra.Command{
		Use:     "app",
		Aliases: []string{"application"},
		Short:   "Manage applications to a recruitment task",
	}
	studyFlag(cmd, &study)
	cmd.PersistentFlags().StringVarP(&task, "task", "t", "", "Recruitment task ID, ID prefix or title")
	_ = cmd.MarkPersistentFlagRequired("task")

	cmd.AddCommand(
		newApplicationAddCmd(app, &study, &task),
		newApplicationListCmd(app, &study, &task),
		newApplicationStatusCmd(app, &study, &task, "accept", "Accept an application", domain.ApplicationAccepted),
		newApplicationStatusCmd(app, &study, &task, "reject", "Reject an application", domain.ApplicationRejected),
		newApplicationStatusCmd(app, &study, &task, "recruit", "Mark an applicant as manually recruited", domain.ApplicationManuallyAdded),
		newApplicationRemoveCmd(app, &study, &task),
	)

	return cmd
}

// taskFromFlags resolves --study and --task to a task.
func taskFromFlags(ctx context.Context, app *App, study, task string) (*domain.RecruitmentTask, error) {
	studyID, err := resolveStudyID(ctx, app, study)
	if err != nil {
		return nil, err
	}
	taskID, err := resolveTaskID(ctx, app, studyID, task)
	if err != nil {
		return nil, err
	}
	return app.Recruitment.GetTask(ctx, taskID)
}

// resolveApplicationID accepts an application id, id prefix or applicant
// name within a task.
func resolveApplicationID(ctx context.Context, app *App, taskID, input string) (string, error) {
	apps, err := app.Recruitment.ListApplications(ctx, taskID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(apps))
	names := make([]string, len(apps))
	for i, a := range apps {
		ids[i], names[i] = a.ID, a.ApplicantName
	}
	return matchID("application", input, ids, names)
}

func newApplicationAddCmd(app *App, study, task *string) *cobra.Command {
	var name, email, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an application",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !domain.ValidApplicationStatuses[status] {
				return fmt.Errorf("invalid application status %q", status)
			}
			t, err := taskFromFlags(ctx, app, *study, *task)
			if err != nil {
				return err
			}
			a := &domain.ApplicationRecord{
				TaskID:         t.ID,
				ApplicantName:  name,
				ApplicantEmail: email,
				Status:         domain.ApplicationStatus(status),
			}
			res, err := app.Recruitment.AddApplication(ctx, a)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s to %s\n",
					formatter.StyleGreen.Render("✔"), formatter.Bold(name), formatter.Bold(t.Title))
			}
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Applicant name")
	cmd.Flags().StringVar(&email, "email", "", "Applicant email")
	cmd.Flags().StringVar(&status, "status", string(domain.ApplicationPending), "pending, accepted, rejected or manually_added")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newApplicationListCmd(app *App, study, task *string) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a task's applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := taskFromFlags(ctx, app, *study, *task)
			if err != nil {
				return err
			}
			apps, err := app.Recruitment.ListApplications(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatApplicationList(t, apps))
			return nil
		},
	}
}

func newApplicationStatusCmd(app *App, study, task *string, use, short string, status domain.ApplicationStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <application>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := taskFromFlags(ctx, app, *study, *task)
			if err != nil {
				return err
			}
			id, err := resolveApplicationID(ctx, app, t.ID, args[0])
			if err != nil {
				return err
			}
			res, err := app.Recruitment.SetApplicationStatus(ctx, id, status)
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
}

func newApplicationRemoveCmd(app *App, study, task *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <application>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := taskFromFlags(ctx, app, *study, *task)
			if err != nil {
				return err
			}
			id, err := resolveApplicationID(ctx, app, t.ID, args[0])
			if err != nil {
				return err
			}
			res, err := app.Recruitment.RemoveApplication(ctx, id)
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
}
