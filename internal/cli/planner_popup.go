package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const popupWidth = 46

var fieldTitles = map[domain.LineItemField]string{
	domain.FieldTitle:      "Title",
	domain.FieldAmount:     "Amount",
	domain.FieldColor:      "Color (#rrggbb)",
	domain.FieldUnits:      "Units",
	domain.FieldUnitRate:   "Unit rate",
	domain.FieldHours:      "Hours",
	domain.FieldHourlyRate: "Hourly rate",
}

// editPopup is the huh form behind the line-item editor. A field is handed
// back for saving when focus leaves it, or when the form is submitted.
type editPopup struct {
	form     *huh.Form
	item     func() *domain.BudgetLineItem
	values   map[domain.LineItemField]*string
	saved    map[domain.LineItemField]string
	focused  domain.LineItemField
	finished bool
}

func newEditPopup(item func() *domain.BudgetLineItem, now func() time.Time) *editPopup {
	p := &editPopup{
		item:    item,
		values:  make(map[domain.LineItemField]*string, len(domain.EditableFields)),
		saved:   make(map[domain.LineItemField]string, len(domain.EditableFields)),
		focused: domain.EditableFields[0],
	}

	current := item()
	fields := make([]huh.Field, 0, len(domain.EditableFields))
	for _, f := range domain.EditableFields {
		v := ""
		if current != nil {
			v = current.FieldValue(f)
		}
		p.values[f] = &v
		p.saved[f] = v

		field := f
		fields = append(fields, huh.NewInput().
			Key(string(field)).
			Title(fieldTitles[field]).
			Value(p.values[field]).
			Validate(func(raw string) error {
				it := item()
				if it == nil {
					return nil
				}
				_, err := it.Clone().SetField(field, raw, now())
				return err
			}))
	}

	p.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(plannerHuhTheme()).
		WithShowHelp(false).
		WithWidth(popupWidth - 4)
	return p
}

func (p *editPopup) Init() tea.Cmd {
	return p.form.Init()
}

// Update forwards msg to the form and returns the fields that are ready to
// be saved.
func (p *editPopup) Update(msg tea.Msg) (tea.Cmd, []domain.LineItemField) {
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.finished = true
		return cmd, p.pending()
	}

	var ready []domain.LineItemField
	if focused := p.form.GetFocusedField(); focused != nil {
		next := domain.LineItemField(focused.GetKey())
		if next != p.focused {
			ready = append(ready, p.focused)
			p.focused = next
		}
	}
	return cmd, ready
}

// pending lists every field whose input differs from what was last saved.
func (p *editPopup) pending() []domain.LineItemField {
	var out []domain.LineItemField
	for _, f := range domain.EditableFields {
		if p.changed(f) {
			out = append(out, f)
		}
	}
	return out
}

func (p *editPopup) changed(f domain.LineItemField) bool {
	return strings.TrimSpace(*p.values[f]) != strings.TrimSpace(p.saved[f])
}

func (p *editPopup) value(f domain.LineItemField) string { return *p.values[f] }

func (p *editPopup) markSaved(f domain.LineItemField) { p.saved[f] = *p.values[f] }

func (p *editPopup) View() string {
	title := "EDIT LINE ITEM"
	it := p.item()
	if it != nil && it.IsDraft() {
		title = "NEW LINE ITEM"
	}

	var footer string
	if it != nil {
		footer = fmt.Sprintf("%s %s  %s %s",
			formatter.Dim("amount"), formatter.Bold(formatter.Money(it.Amount)),
			formatter.Dim("when"), formatter.ScheduleLabel(it.Schedule))
	}
	keys := formatter.Dim("tab next · enter on last saves · esc close\nctrl+d delete · ctrl+arrows move")

	body := lipgloss.JoinVertical(lipgloss.Left,
		formatter.StyleHeader.Render(title),
		p.form.View(),
		footer,
		keys,
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formatter.ColorHeader).
		Padding(0, 1).
		Width(popupWidth).
		Render(body)
}

func plannerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
