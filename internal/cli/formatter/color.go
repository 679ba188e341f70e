package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorBg     = lipgloss.Color("#282828")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RecruitmentPill renders an item's recruitment aggregate, or a dash when
// no task references the item.
func RecruitmentPill(agg *domain.RecruitmentAggregate) string {
	if agg == nil {
		return StyleDim.Render("--")
	}
	counts := fmt.Sprintf("%d/%d", agg.StudentsRecruited, agg.StudentsRequired)
	if agg.Status == domain.RecruitmentComplete {
		return StyleGreen.Render("✔ " + counts)
	}
	return StyleYellow.Render("● " + counts)
}

// TaskStatusPill returns a colored indicator for a recruitment task.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskTodo:
		return StyleBlue.Render("○ Todo")
	case domain.TaskInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.TaskDone:
		return StyleDim.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// ApplicationStatusPill returns a colored indicator for an application.
func ApplicationStatusPill(status domain.ApplicationStatus) string {
	switch status {
	case domain.ApplicationPending:
		return StyleYellow.Render("○ Pending")
	case domain.ApplicationAccepted:
		return StyleGreen.Render("✔ Accepted")
	case domain.ApplicationManuallyAdded:
		return StylePurple.Render("✚ Added")
	case domain.ApplicationRejected:
		return StyleRed.Render("✖ Rejected")
	default:
		return StyleDim.Render(string(status))
	}
}

// ModeBadge shows whether a study's schedule is anchored to dates.
func ModeBadge(mode domain.ScheduleMode) string {
	if mode == domain.ModeAbsolute {
		return StylePurple.Render("◆ DATED")
	}
	return StyleBlue.Render("◇ WEEKS")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Swatch renders a two-cell block in the given #rrggbb color.
func Swatch(hex string) string {
	if hex == "" {
		hex = domain.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}
