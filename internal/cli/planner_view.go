package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/timeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var timeNow = func() time.Time { return time.Now().UTC() }

var (
	styleSelection = lipgloss.NewStyle().Background(formatter.ColorYellow).Foreground(formatter.ColorBg)
	styleCursor    = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
)

func (m *plannerModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		m.renderHeader(),
		m.renderRuler(),
		strings.Repeat(" ", m.layout.left) + formatter.Dim(strings.Repeat("─", m.layout.width)),
	}
	items := m.board.Items()
	for i, it := range items {
		lines = append(lines, m.renderItemRow(i, it))
	}
	lines = append(lines, m.renderCreateRow(), "", m.renderStatus(), m.renderHelp())

	view := strings.Join(lines, "\n")
	if m.popup != nil {
		view = overlay(view, m.popup.View(), m.popupPos.X, m.popupPos.Y, m.width, m.height)
	}
	return view
}

func (m *plannerModel) renderHeader() string {
	study := m.board.Study()
	parts := []string{
		formatter.StyleHeader.Render("STUDYPLAN"),
		formatter.Bold(study.Name),
		formatter.ModeBadge(study.Mode()),
		formatter.Dim(fmt.Sprintf("zoom ×%g", m.zoom)),
	}
	mapper := m.ctrl.Mapper()
	if mapper.Mode() == domain.ModeAbsolute {
		from, to := mapper.Window()
		parts = append(parts, formatter.Dim(from.Format(domain.DateLayout)+" → "+to.Format(domain.DateLayout)))
	} else {
		parts = append(parts, formatter.Dim(fmt.Sprintf("S1 → %s", domain.FormatWeek(mapper.MaxWeeks()))))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}

// renderRuler prints each week label once at the first column it owns.
func (m *plannerModel) renderRuler() string {
	cols := timeline.Columns(timeline.WeekLabels(m.baseWeeks), m.zoom)
	if len(cols) == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", m.layout.width))
	cellsPerCol := float64(m.layout.width) / float64(len(cols))
	nextFree := 0
	for i, label := range cols {
		if i > 0 && cols[i-1] == label {
			continue
		}
		pos := int(math.Floor(float64(i) * cellsPerCol))
		if pos < nextFree || pos+len(label) > len(buf) {
			continue
		}
		copy(buf[pos:], []rune(label))
		nextFree = pos + len(label) + 1
	}
	return strings.Repeat(" ", m.layout.left) + formatter.Dim(string(buf))
}

func (m *plannerModel) gutter(label string, selected bool) string {
	cursor := "  "
	if selected {
		cursor = styleCursor.Render("› ")
	}
	text := formatter.Truncate(label, m.layout.left-3)
	pad := max(m.layout.left-2-lipgloss.Width(text), 0)
	return cursor + text + strings.Repeat(" ", pad)
}

func (m *plannerModel) renderItemRow(i int, it *domain.BudgetLineItem) string {
	title := it.Title
	if title == "" {
		title = "(untitled)"
	}
	if it.Recruitment != nil {
		title = fmt.Sprintf("%s %d/%d", title, it.Recruitment.StudentsRecruited, it.Recruitment.StudentsRequired)
	}
	label := title
	if it.IsDraft() {
		label = formatter.StyleYellow.Render(formatter.Truncate(title, m.layout.left-3))
	}

	cells := m.emptyTrack(i)
	bar := m.layout.bars[i]
	from, to := bar.first-m.layout.left, bar.last-m.layout.left
	barText := renderBar(it, to-from+1, bar.hasHandles)

	row := strings.Join(cells[:from], "") + barText + strings.Join(cells[to+1:], "")
	return m.gutter(label, i == m.selected) + row
}

func (m *plannerModel) renderCreateRow() string {
	cells := m.emptyTrack(len(m.layout.bars))
	return m.gutter(formatter.Dim("+ drag to add"), false) + strings.Join(cells, "")
}

// emptyTrack returns the background cells of row, with the range being
// swept highlighted when the selection started on that row.
func (m *plannerModel) emptyTrack(row int) []string {
	cells := make([]string, m.layout.width)
	for c := range cells {
		cells[c] = " "
	}
	if sel, ok := m.ctrl.Gesture().(timeline.SelectingRange); ok && row == m.selectRow {
		lo, hi := math.Min(sel.Start, sel.End), math.Max(sel.Start, sel.End)
		first := int(math.Floor(lo / 100 * float64(m.layout.width)))
		last := min(int(math.Ceil(hi/100*float64(m.layout.width))), m.layout.width)
		for c := first; c < last; c++ {
			cells[c] = styleSelection.Render(" ")
		}
	}
	return cells
}

func renderBar(it *domain.BudgetLineItem, width int, handles bool) string {
	color := it.Color
	if color == "" {
		color = domain.DefaultColor
	}
	style := lipgloss.NewStyle().Background(lipgloss.Color(color)).Foreground(formatter.ColorBg)
	if !handles {
		return style.Render(strings.Repeat(" ", width))
	}
	inner := formatter.Truncate(it.Title, width-2)
	inner += strings.Repeat(" ", max(width-2-lipgloss.Width(inner), 0))
	return style.Render("▌" + inner + "▐")
}

func (m *plannerModel) renderStatus() string {
	switch {
	case m.status.text == "":
		return ""
	case m.status.isErr:
		return formatter.StyleRed.Render("✖ " + m.status.text)
	default:
		return formatter.StyleGreen.Render(m.status.text)
	}
}

func (m *plannerModel) renderHelp() string {
	return formatter.Dim("drag: create · drag bar: move · drag edge: resize · click: edit · e edit · +/- zoom · r reconcile · q quit")
}

// overlay draws box over base with its top-left corner at (x, y), clamped
// so the box stays on a width×height screen.
func overlay(base, box string, x, y, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxW := lipgloss.Width(box)
	x = max(min(x, width-boxW), 0)
	y = max(min(y, height-len(boxLines)), 0)

	lines := strings.Split(base, "\n")
	for len(lines) < y+len(boxLines) {
		lines = append(lines, "")
	}
	for i, b := range boxLines {
		line := lines[y+i]
		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ""
		if ansi.StringWidth(line) > x+boxW {
			right = ansi.TruncateLeft(line, x+boxW, "")
		}
		lines[y+i] = left + b + right
	}
	return strings.Join(lines, "\n")
}
