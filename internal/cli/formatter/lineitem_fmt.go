package formatter

import (
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatLineItemList renders a study's budget with a total row.
func FormatLineItemList(study *domain.Study, items []*domain.BudgetLineItem) string {
	title := "Budget"
	if study != nil {
		title = "Budget · " + study.Name
	}
	if len(items) == 0 {
		return RenderBox(title, Dim("No line items. Add one with: studyplan item add"))
	}

	headers := []string{"ID", "", "TITLE", "SCHEDULE", "PRICING", "AMOUNT", "RECRUITED"}
	rows := make([][]string, 0, len(items)+1)
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
		rows = append(rows, []string{
			TruncID(it.ID),
			Swatch(it.Color),
			Bold(Truncate(it.Title, 32)),
			ScheduleLabel(it.Schedule),
			pricingLabel(it),
			Money(it.Amount),
			RecruitmentPill(it.Recruitment),
		})
	}
	rows = append(rows, []string{"", "", StyleHeader.Render("TOTAL"), "", "", Bold(Money(total)), ""})
	return RenderBox(title, RenderTable(headers, rows))
}

func pricingLabel(it *domain.BudgetLineItem) string {
	switch {
	case it.Units != nil && it.UnitRate != nil:
		return Dim(fmt.Sprintf("%s × %s", it.Units.String(), it.UnitRate.StringFixed(2)))
	case it.Hours != nil && it.HourlyRate != nil:
		return Dim(fmt.Sprintf("%sh × %s", it.Hours.String(), it.HourlyRate.StringFixed(2)))
	default:
		return Dim("--")
	}
}
