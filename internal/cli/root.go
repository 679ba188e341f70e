package cli

import (
	"github.com/alexanderramin/studyplan/internal/prefs"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Studies     service.StudyService
	LineItems   service.LineItemService
	Recruitment service.RecruitmentService
	Reconcile   service.ReconcileService

	// Prefs keeps planner UI state between sessions. Nil disables it.
	Prefs PlannerPrefs
	// DefaultZoom applies when no zoom level was saved.
	DefaultZoom float64

	// IsInteractive reports whether stdin is a terminal. Nil means yes.
	IsInteractive func() bool
}

// PlannerPrefs is the preference store read and written by the planner.
type PlannerPrefs interface {
	Zoom(def float64) float64
	SetZoom(z float64) error
	PopupPosition() (prefs.Position, bool)
	SetPopupPosition(p prefs.Position) error
}

func (a *App) interactive() bool {
	return a.IsInteractive == nil || a.IsInteractive()
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Study budget timeline and recruitment tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStudyCmd(app),
		newItemCmd(app),
		newTaskCmd(app),
		newApplicationCmd(app),
		newReconcileCmd(app),
		newPlanCmd(app),
	)

	return root
}
