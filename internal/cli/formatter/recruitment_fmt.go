package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/recruitment"
)

// TaskRow carries one task with the recruited count shown next to it.
type TaskRow struct {
	Task      *domain.RecruitmentTask
	Recruited int
}

// FormatTaskList renders recruitment tasks. Linked line items are shown by
// title when known.
func FormatTaskList(rows []TaskRow, itemTitles map[string]string) string {
	if len(rows) == 0 {
		return RenderBox("Recruitment", Dim("No recruitment tasks."))
	}

	headers := []string{"ID", "TITLE", "STATUS", "RECRUITMENT", "LINKED ITEMS"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		progress := Dim("not linked")
		if r.Task.LinkedRecruitment || r.Task.StudentsRequired != nil {
			progress = RenderRecruitment(r.Recruited, r.Task.RequiredOrZero(), 10)
		}
		out = append(out, []string{
			TruncID(r.Task.ID),
			Bold(Truncate(r.Task.Title, 28)),
			TaskStatusPill(r.Task.Status),
			progress,
			linkedLabel(r.Task.LinkedItems, itemTitles),
		})
	}
	return RenderBox("Recruitment", RenderTable(headers, out))
}

func linkedLabel(ids []string, titles map[string]string) string {
	if len(ids) == 0 {
		return Dim("--")
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if title, ok := titles[id]; ok && title != "" {
			names = append(names, Truncate(title, 20))
			continue
		}
		names = append(names, TruncID(id))
	}
	return strings.Join(names, ", ")
}

// FormatApplicationList renders a task's applications.
func FormatApplicationList(task *domain.RecruitmentTask, apps []*domain.ApplicationRecord) string {
	title := "Applications · " + task.Title
	if len(apps) == 0 {
		return RenderBox(title, Dim("No applications."))
	}

	headers := []string{"ID", "APPLICANT", "EMAIL", "STATUS"}
	rows := make([][]string, 0, len(apps))
	recruited := 0
	for _, a := range apps {
		if a.CountsAsRecruited() {
			recruited++
		}
		email := a.ApplicantEmail
		if email == "" {
			email = Dim("--")
		}
		rows = append(rows, []string{TruncID(a.ID), Bold(a.ApplicantName), email, ApplicationStatusPill(a.Status)})
	}
	summary := RenderRecruitment(recruited, task.RequiredOrZero(), 16)
	return RenderBox(title, RenderTable(headers, rows)+"\n\n"+summary)
}

// FormatReconcileResult summarises one reconciliation pass.
func FormatReconcileResult(stats recruitment.Stats) string {
	parts := []string{
		fmt.Sprintf("%d tasks", stats.Tasks),
		fmt.Sprintf("%d items", stats.Items),
		StyleGreen.Render(fmt.Sprintf("%d with recruitment", stats.WithAggregate)),
	}
	if stats.Cleared > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d cleared", stats.Cleared)))
	}
	return fmt.Sprintf("%s Reconciled %s", StyleGreen.Render("✔"), strings.Join(parts, Dim(" · ")))
}
