package cli

import (
	"github.com/spf13/cobra"
)

func newReconcileCmd(app *App) *cobra.Command {
	var study string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute recruitment totals on a study's line items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, study)
			if err != nil {
				return err
			}
			res, err := app.Reconcile.ReconcileStudy(ctx, studyID)
			return reportReconcile(cmd.OutOrStdout(), res, err)
		},
	}
	studyFlag(cmd, &study)

	return cmd
}
