package cli

import (
	"math"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/timeline"
)

const (
	gutterWidth   = 22
	trackTop      = 3
	minTrackWidth = 12
)

// barSpan is the cells an item's bar occupies on its row.
type barSpan struct {
	itemID     string
	first      int
	last       int
	hasHandles bool
}

// trackLayout places the board on screen cells: one row per item followed
// by an empty creation row, with the track to the right of a title gutter.
type trackLayout struct {
	left  int
	top   int
	width int
	bars  []barSpan
}

func newTrackLayout(termWidth int, mapper timeline.Mapper, items []*domain.BudgetLineItem) trackLayout {
	l := trackLayout{
		left:  gutterWidth,
		top:   trackTop,
		width: max(minTrackWidth, termWidth-gutterWidth-1),
	}
	l.bars = make([]barSpan, len(items))
	for i, it := range items {
		left, width := mapper.Place(it.Schedule)
		first := l.left + int(math.Floor(left/100*float64(l.width)))
		last := l.left + int(math.Ceil((left+width)/100*float64(l.width))) - 1
		last = min(max(last, first), l.left+l.width-1)
		l.bars[i] = barSpan{itemID: it.ID, first: first, last: last, hasHandles: last-first >= 1}
	}
	return l
}

// rows counts item rows plus the creation row.
func (l trackLayout) rows() int { return len(l.bars) + 1 }

// Bounds is the pointer rectangle handed to the controller.
func (l trackLayout) Bounds() timeline.Rect {
	return timeline.Rect{
		X:      float64(l.left),
		Y:      float64(l.top),
		Width:  float64(l.width),
		Height: float64(l.rows()),
	}
}

// pointX maps a cell column to the centre of that cell.
func (l trackLayout) pointX(col int) float64 { return float64(col) + 0.5 }

// Hit reports what lies under cell (x, y). Cells of an item row outside its
// bar are track, so a range can be swept on any row.
func (l trackLayout) Hit(x, y int) timeline.Target {
	if !l.Bounds().Contains(l.pointX(x), float64(y)) {
		return timeline.Target{Kind: timeline.TargetNone}
	}
	row := y - l.top
	if row >= len(l.bars) {
		return timeline.Target{Kind: timeline.TargetTrack}
	}
	bar := l.bars[row]
	switch {
	case x < bar.first || x > bar.last:
		return timeline.Target{Kind: timeline.TargetTrack}
	case bar.hasHandles && x == bar.first:
		return timeline.Target{Kind: timeline.TargetStartHandle, ItemID: bar.itemID}
	case bar.hasHandles && x == bar.last:
		return timeline.Target{Kind: timeline.TargetEndHandle, ItemID: bar.itemID}
	}
	return timeline.Target{Kind: timeline.TargetItemBody, ItemID: bar.itemID}
}

// Row returns the item row index under y, or -1.
func (l trackLayout) Row(y int) int {
	row := y - l.top
	if row < 0 || row >= len(l.bars) {
		return -1
	}
	return row
}
