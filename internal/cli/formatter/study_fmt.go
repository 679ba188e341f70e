package formatter

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// FormatStudyList renders studies inside a bordered box.
func FormatStudyList(studies []*domain.Study) string {
	if len(studies) == 0 {
		return Dim("No studies yet. Create one with: studyplan study create --name <name>")
	}

	headers := []string{"ID", "NAME", "COMPANY", "MODE", "START", "END"}
	rows := make([][]string, 0, len(studies))
	for _, s := range studies {
		company := s.Company
		if company == "" {
			company = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Name),
			company,
			ModeBadge(s.Mode()),
			OptionalDate(s.StartDate),
			OptionalDate(s.EndDate),
		})
	}
	return RenderBox("Studies", RenderTable(headers, rows))
}

// FormatStudyDates reports the outcome of setting or clearing an anchor.
func FormatStudyDates(s *domain.Study) string {
	if s.Mode() == domain.ModeAbsolute {
		return fmt.Sprintf("%s %s anchored %s → %s",
			StyleGreen.Render("✔"), Bold(s.Name),
			OptionalDate(s.StartDate), OptionalDate(s.EndDate))
	}
	return fmt.Sprintf("%s %s now uses relative weeks", StyleGreen.Render("✔"), Bold(s.Name))
}
