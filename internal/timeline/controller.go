package timeline

import (
	"context"
	"math"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Outcome tells the caller what a pointer event did.
type Outcome struct {
	// Changed is true when in-memory items were modified.
	Changed bool
	// Created is the id of a draft created by a range selection.
	Created string
	// OpenEditor is the id of the item whose edit popup should open.
	OpenEditor string
	// Write is the persistence call to run off the event loop, if any.
	Write Write
}

// Controller is the pointer gesture state machine of the timeline. It keeps
// one active gesture and edits items on its Board in place.
type Controller struct {
	board   *Board
	store   LineItemStore
	mapper  Mapper
	bounds  Rect
	gesture Gesture
}

// NewController creates an idle controller.
func NewController(board *Board, store LineItemStore, mapper Mapper, bounds Rect) *Controller {
	return &Controller{
		board:   board,
		store:   store,
		mapper:  mapper,
		bounds:  bounds,
		gesture: Idle{},
	}
}

func (c *Controller) Gesture() Gesture   { return c.gesture }
func (c *Controller) Mapper() Mapper     { return c.mapper }
func (c *Controller) Bounds() Rect       { return c.bounds }
func (c *Controller) SetMapper(m Mapper) { c.mapper = m }
func (c *Controller) SetBounds(r Rect)   { c.bounds = r }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	_, idle := c.gesture.(Idle)
	return !idle
}

// Handle advances the state machine by one pointer event. It never blocks:
// persistence is returned as a Write for the caller to run.
func (c *Controller) Handle(ev PointerEvent) Outcome {
	pct := c.bounds.Percent(ev.X)

	switch g := c.gesture.(type) {
	case Idle:
		if ev.Phase == PhaseDown {
			c.begin(ev.Target, pct)
		}
		return Outcome{}

	case SelectingRange:
		switch ev.Phase {
		case PhaseMove:
			g.End = pct
			c.gesture = g
		case PhaseUp:
			g.End = pct
			c.gesture = Idle{}
			return c.finishSelection(g)
		case PhaseLeave:
			c.gesture = Idle{}
		}
		return Outcome{}

	case Resizing:
		switch ev.Phase {
		case PhaseMove:
			return Outcome{Changed: c.resize(g, pct)}
		case PhaseUp, PhaseLeave:
			c.gesture = Idle{}
			return c.commit(g.ItemID, g.Origin, false)
		}
		return Outcome{}

	case Moving:
		switch ev.Phase {
		case PhaseMove:
			return Outcome{Changed: c.move(g, pct)}
		case PhaseUp, PhaseLeave:
			c.gesture = Idle{}
			return c.commit(g.ItemID, g.Origin, ev.Phase == PhaseUp)
		}
		return Outcome{}
	}
	return Outcome{}
}

// Cancel abandons the active gesture without committing it.
func (c *Controller) Cancel() {
	c.gesture = Idle{}
}

func (c *Controller) begin(target Target, pct float64) {
	switch target.Kind {
	case TargetTrack:
		c.gesture = SelectingRange{Start: pct, End: pct}

	case TargetStartHandle, TargetEndHandle:
		item := c.board.Item(target.ItemID)
		if item == nil {
			return
		}
		edge := EdgeStart
		if target.Kind == TargetEndHandle {
			edge = EdgeEnd
		}
		c.gesture = Resizing{
			Edge:      edge,
			ItemID:    item.ID,
			OriginPct: pct,
			Origin:    item.Schedule,
		}

	case TargetItemBody:
		item := c.board.Item(target.ItemID)
		if item == nil {
			return
		}
		c.gesture = Moving{
			ItemID:    item.ID,
			OriginPct: pct,
			Origin:    item.Schedule,
		}
	}
}

func (c *Controller) finishSelection(g SelectingRange) Outcome {
	if math.Abs(g.End-g.Start) <= SelectThresholdPercent {
		return Outcome{}
	}
	now := c.board.now()
	draft := &domain.BudgetLineItem{
		ID:        domain.NewDraftID(),
		StudyID:   studyID(c.board.Study()),
		Color:     domain.DefaultColor,
		Schedule:  c.mapper.RangeToSchedule(g.Start, g.End),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.board.Add(draft)
	return Outcome{Changed: true, Created: draft.ID, OpenEditor: draft.ID}
}

// resize drags one bound by the pointer displacement in weeks since the
// press. Start stays in [1, end-1] and end in [start+1, MaxWeeks]; the other
// bound is left as it was. Items reaching past the visible weeks are not
// resized.
func (c *Controller) resize(g Resizing, pct float64) bool {
	item := c.board.Item(g.ItemID)
	if item == nil || !c.mapper.Reachable(g.Origin) {
		return false
	}
	start, end := c.mapper.ScheduleWeeks(g.Origin)
	delta := c.weekDelta(g.OriginPct, pct)

	next := g.Origin
	switch g.Edge {
	case EdgeStart:
		next = c.mapper.ShiftSchedule(g.Origin, dragBound(start, delta, 1, end-1), 0)
	case EdgeEnd:
		next = c.mapper.ShiftSchedule(g.Origin, 0, dragBound(end, delta, start+1, c.mapper.MaxWeeks()))
	}
	return c.apply(item, next)
}

// move shifts both bounds by the pointer displacement in weeks, keeping the
// shifted interval inside [1, MaxWeeks]. Items reaching past the visible
// weeks stay put.
func (c *Controller) move(g Moving, pct float64) bool {
	item := c.board.Item(g.ItemID)
	if item == nil || !c.mapper.Reachable(g.Origin) {
		return false
	}
	start, end := c.mapper.ScheduleWeeks(g.Origin)
	delta := clampInt(c.weekDelta(g.OriginPct, pct), 1-start, c.mapper.MaxWeeks()-end)
	return c.apply(item, c.mapper.ShiftSchedule(g.Origin, delta, delta))
}

// weekDelta converts a pointer displacement into whole weeks.
func (c *Controller) weekDelta(from, to float64) int {
	return int(math.Round((to - from) / 100 * float64(c.mapper.MaxWeeks())))
}

// dragBound returns how far a bound at pos follows a drag of delta weeks
// inside [lo, hi]. It is zero when the bound would have to move against the
// pointer.
func dragBound(pos, delta, lo, hi int) int {
	if delta == 0 || lo > hi {
		return 0
	}
	shift := clampInt(pos+delta, lo, hi) - pos
	if shift*delta < 0 {
		return 0
	}
	return shift
}

func (c *Controller) apply(item *domain.BudgetLineItem, next domain.Schedule) bool {
	if next.String() == item.Schedule.String() {
		return false
	}
	item.SetSchedule(next, c.board.now())
	if item.IsDraft() && c.board.isPromoting(item.ID) {
		c.board.markDirty(item.ID)
	}
	return true
}

// commit finishes a resize or move. An unchanged interval persists nothing;
// a plain click on an item body opens its editor instead.
func (c *Controller) commit(itemID string, origin domain.Schedule, click bool) Outcome {
	item := c.board.Item(itemID)
	if item == nil {
		return Outcome{}
	}
	if item.Schedule.String() == origin.String() {
		if click {
			return Outcome{OpenEditor: item.ID}
		}
		return Outcome{}
	}
	if item.IsDraft() {
		return Outcome{Changed: true}
	}

	id, schedule := item.ID, item.Clone().Schedule
	store := c.store
	return Outcome{
		Changed: true,
		Write: func(ctx context.Context) WriteResult {
			return WriteResult{Op: OpSchedule, ItemID: id, Err: store.UpdateSchedule(ctx, id, schedule)}
		},
	}
}

func studyID(s *domain.Study) string {
	if s == nil {
		return ""
	}
	return s.ID
}
