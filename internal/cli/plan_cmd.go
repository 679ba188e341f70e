package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("plan needs an interactive terminal")

func newPlanCmd(app *App) *cobra.Command {
	var study string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Open the interactive budget timeline",
		Long: `Open a study's budget as a timeline. Drag on an empty row to add a line
item, drag a bar to move it, drag either edge to resize it and click a bar
to edit its fields. +/- zoom, r reconciles recruitment, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			ctx := cmd.Context()
			studyID, err := resolveStudyID(ctx, app, study)
			if err != nil {
				return err
			}
			model, err := loadPlanner(ctx, app, studyID)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			_, err = p.Run()
			return err
		},
	}
	studyFlag(cmd, &study)

	return cmd
}
