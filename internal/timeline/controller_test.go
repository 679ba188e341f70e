package timeline

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackBounds is 80 cells wide, so one of 8 weeks spans 10 cells.
var trackBounds = Rect{X: 0, Y: 0, Width: 80, Height: 3}

func newTestController(items ...*domain.BudgetLineItem) (*Controller, *Board, *fakeStore) {
	study := &domain.Study{ID: "st-1", Name: "Relative"}
	board := NewBoard(study, items, nil)
	store := newFakeStore()
	return NewController(board, store, NewMapper(study, 8), trackBounds), board, store
}

func persistedItem(id string, start, end int) *domain.BudgetLineItem {
	return &domain.BudgetLineItem{ID: id, StudyID: "st-1", Title: id, Color: domain.DefaultColor, Schedule: domain.WeekSchedule(start, end)}
}

func down(x float64, kind TargetKind, id string) PointerEvent {
	return PointerEvent{X: x, Phase: PhaseDown, Target: Target{Kind: kind, ItemID: id}}
}

func moveTo(x float64) PointerEvent  { return PointerEvent{X: x, Phase: PhaseMove} }
func upAt(x float64) PointerEvent    { return PointerEvent{X: x, Phase: PhaseUp} }
func leaveAt(x float64) PointerEvent { return PointerEvent{X: x, Phase: PhaseLeave} }

func TestController_SelectionCreatesDraft(t *testing.T) {
	c, board, store := newTestController()

	c.Handle(down(15, TargetTrack, ""))
	assert.IsType(t, SelectingRange{}, c.Gesture())
	c.Handle(moveTo(35))
	out := c.Handle(upAt(45))

	require.NotEmpty(t, out.Created)
	assert.True(t, domain.IsDraftID(out.Created))
	assert.Equal(t, out.Created, out.OpenEditor)
	assert.True(t, out.Changed)
	assert.Nil(t, out.Write, "drafts are not persisted by the gesture")
	assert.IsType(t, Idle{}, c.Gesture())

	draft := board.Item(out.Created)
	require.NotNil(t, draft)
	assert.Equal(t, domain.WeekSchedule(2, 5), draft.Schedule)
	assert.Equal(t, "st-1", draft.StudyID)
	assert.Equal(t, domain.DefaultColor, draft.Color)
	assert.Empty(t, store.created)
}

func TestController_SmallSelectionIsDiscarded(t *testing.T) {
	c, board, _ := newTestController()

	c.Handle(down(10, TargetTrack, ""))
	out := c.Handle(upAt(11))

	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, board.Items())
	assert.IsType(t, Idle{}, c.Gesture())
}

func TestController_LeaveCancelsSelection(t *testing.T) {
	c, board, _ := newTestController()

	c.Handle(down(10, TargetTrack, ""))
	c.Handle(moveTo(50))
	out := c.Handle(leaveAt(90))

	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, board.Items())
	assert.IsType(t, Idle{}, c.Gesture())
}

func TestController_ResizeEndPersistsOnRelease(t *testing.T) {
	c, board, store := newTestController(persistedItem("li-1", 2, 5))

	c.Handle(down(45, TargetEndHandle, "li-1"))
	require.IsType(t, Resizing{}, c.Gesture())
	assert.Equal(t, EdgeEnd, c.Gesture().(Resizing).Edge)

	out := c.Handle(moveTo(75))
	assert.True(t, out.Changed)
	assert.Equal(t, domain.WeekSchedule(2, 8), board.Item("li-1").Schedule)
	assert.Empty(t, store.schedules, "moves never persist")

	out = c.Handle(upAt(75))
	require.NotNil(t, out.Write)
	assert.IsType(t, Idle{}, c.Gesture())

	res := run(out.Write)
	require.NoError(t, res.Err)
	assert.Equal(t, OpSchedule, res.Op)
	assert.Equal(t, domain.WeekSchedule(2, 8), store.schedules["li-1"])
}

func TestController_ResizeStartClamps(t *testing.T) {
	c, board, _ := newTestController(persistedItem("li-1", 2, 5))

	c.Handle(down(15, TargetStartHandle, "li-1"))
	c.Handle(moveTo(79))
	assert.Equal(t, domain.WeekSchedule(4, 5), board.Item("li-1").Schedule, "start stays before end")

	c.Handle(moveTo(-20))
	assert.Equal(t, domain.WeekSchedule(1, 5), board.Item("li-1").Schedule)
}

func TestController_ResizeEndClamps(t *testing.T) {
	c, board, _ := newTestController(persistedItem("li-1", 3, 5))

	c.Handle(down(45, TargetEndHandle, "li-1"))
	c.Handle(moveTo(0))
	assert.Equal(t, domain.WeekSchedule(3, 4), board.Item("li-1").Schedule, "end stays after start")
}

func TestController_MovePreservesDuration(t *testing.T) {
	c, board, _ := newTestController(persistedItem("li-1", 2, 5))

	c.Handle(down(25, TargetItemBody, "li-1"))
	require.IsType(t, Moving{}, c.Gesture())

	c.Handle(moveTo(55))
	assert.Equal(t, domain.WeekSchedule(5, 8), board.Item("li-1").Schedule)

	c.Handle(moveTo(79))
	assert.Equal(t, domain.WeekSchedule(5, 8), board.Item("li-1").Schedule, "clamped at the last week")

	c.Handle(moveTo(0))
	assert.Equal(t, domain.WeekSchedule(1, 4), board.Item("li-1").Schedule, "clamped at week 1")
}

func TestController_ClickOnBodyOpensEditor(t *testing.T) {
	c, _, store := newTestController(persistedItem("li-1", 2, 5))

	c.Handle(down(25, TargetItemBody, "li-1"))
	out := c.Handle(upAt(25))

	assert.Equal(t, "li-1", out.OpenEditor)
	assert.False(t, out.Changed)
	assert.Nil(t, out.Write)
	assert.Empty(t, store.schedules)
}

func TestController_LeaveCommitsMove(t *testing.T) {
	c, _, store := newTestController(persistedItem("li-1", 2, 5))

	c.Handle(down(25, TargetItemBody, "li-1"))
	c.Handle(moveTo(35))
	out := c.Handle(leaveAt(95))

	require.NotNil(t, out.Write)
	assert.Empty(t, out.OpenEditor)
	run(out.Write)
	assert.Equal(t, domain.WeekSchedule(3, 6), store.schedules["li-1"])
}

func TestController_FailedWriteKeepsMemory(t *testing.T) {
	c, board, store := newTestController(persistedItem("li-1", 2, 5))
	store.scheduleErr = errors.New("disk full")

	c.Handle(down(45, TargetEndHandle, "li-1"))
	c.Handle(moveTo(65))
	out := c.Handle(upAt(65))

	res := run(out.Write)
	require.Error(t, res.Err)
	assert.Nil(t, board.Resolve(store, res))
	assert.Equal(t, domain.WeekSchedule(2, 7), board.Item("li-1").Schedule)
}

func TestController_PressOnUnknownItemStaysIdle(t *testing.T) {
	c, _, _ := newTestController()

	c.Handle(down(25, TargetItemBody, "missing"))
	assert.IsType(t, Idle{}, c.Gesture())
	c.Handle(down(25, TargetNone, ""))
	assert.IsType(t, Idle{}, c.Gesture())
}

func TestController_DraftResizeStaysLocal(t *testing.T) {
	c, board, store := newTestController()

	c.Handle(down(15, TargetTrack, ""))
	out := c.Handle(upAt(45))
	draftID := out.Created

	c.Handle(down(45, TargetEndHandle, draftID))
	c.Handle(moveTo(65))
	out = c.Handle(upAt(65))

	assert.True(t, out.Changed)
	assert.Nil(t, out.Write)
	assert.Equal(t, domain.WeekSchedule(2, 7), board.Item(draftID).Schedule)
	assert.Empty(t, store.schedules)
}

func TestController_AbsoluteMoveKeepsDates(t *testing.T) {
	study := anchoredStudy(day(2026, 1, 5), day(2026, 3, 1))
	item := &domain.BudgetLineItem{ID: "li-1", Schedule: domain.DateSchedule(day(2026, 1, 12), day(2026, 1, 25))}
	board := NewBoard(study, []*domain.BudgetLineItem{item}, nil)
	store := newFakeStore()
	c := NewController(board, store, NewMapper(study, 8), trackBounds)

	c.Handle(down(15, TargetItemBody, "li-1"))
	c.Handle(moveTo(25))
	out := c.Handle(upAt(25))

	require.NotNil(t, out.Write)
	run(out.Write)
	got := store.schedules["li-1"]
	require.True(t, got.IsDated())
	assert.Equal(t, day(2026, 1, 19), *got.StartDate)
	assert.Equal(t, day(2026, 2, 1), *got.EndDate)
}

func datedController(start, end time.Time, visibleWeeks int) (*Controller, *Board, *fakeStore) {
	study := anchoredStudy(day(2026, 1, 5), day(2026, 3, 1))
	item := &domain.BudgetLineItem{ID: "li-1", StudyID: study.ID, Schedule: domain.DateSchedule(start, end)}
	board := NewBoard(study, []*domain.BudgetLineItem{item}, nil)
	store := newFakeStore()
	return NewController(board, store, NewMapper(study, visibleWeeks), trackBounds), board, store
}

func TestController_StillPointerOnDatedItemOpensEditor(t *testing.T) {
	c, board, store := datedController(day(2026, 1, 14), day(2026, 1, 16), 8)

	c.Handle(down(20, TargetItemBody, "li-1"))
	out := c.Handle(moveTo(20))
	assert.False(t, out.Changed)
	out = c.Handle(upAt(20))

	assert.Nil(t, out.Write)
	assert.Equal(t, "li-1", out.OpenEditor)
	got := board.Item("li-1").Schedule
	assert.Equal(t, day(2026, 1, 14), *got.StartDate)
	assert.Equal(t, day(2026, 1, 16), *got.EndDate)
	assert.Empty(t, store.schedules)
}

func TestController_DatedMoveKeepsWeekdays(t *testing.T) {
	c, _, store := datedController(day(2026, 1, 14), day(2026, 1, 16), 8)

	c.Handle(down(20, TargetItemBody, "li-1"))
	c.Handle(moveTo(40))
	out := c.Handle(upAt(40))

	require.NotNil(t, out.Write)
	run(out.Write)
	got := store.schedules["li-1"]
	assert.Equal(t, day(2026, 1, 28), *got.StartDate)
	assert.Equal(t, day(2026, 1, 30), *got.EndDate)
}

func TestController_DatedResizeMovesOnlyDraggedBound(t *testing.T) {
	c, board, _ := datedController(day(2026, 1, 14), day(2026, 1, 16), 8)

	c.Handle(down(15, TargetEndHandle, "li-1"))
	c.Handle(moveTo(15))
	assert.Equal(t, day(2026, 1, 16), *board.Item("li-1").Schedule.EndDate, "still pointer")

	c.Handle(moveTo(35))
	got := board.Item("li-1").Schedule
	assert.Equal(t, day(2026, 1, 14), *got.StartDate)
	assert.Equal(t, day(2026, 1, 30), *got.EndDate)
	c.Handle(upAt(35))

	c.Handle(down(15, TargetStartHandle, "li-1"))
	c.Handle(moveTo(5))
	got = board.Item("li-1").Schedule
	assert.Equal(t, day(2026, 1, 7), *got.StartDate)
	assert.Equal(t, day(2026, 1, 30), *got.EndDate)
}

func TestController_ItemsPastVisibleWeeksStayPut(t *testing.T) {
	study := &domain.Study{ID: "st-1"}
	item := persistedItem("li-1", 6, 8)
	board := NewBoard(study, []*domain.BudgetLineItem{item}, nil)
	store := newFakeStore()
	c := NewController(board, store, NewMapper(study, 4), trackBounds)

	c.Handle(down(70, TargetStartHandle, "li-1"))
	c.Handle(moveTo(24))
	out := c.Handle(upAt(24))
	assert.Nil(t, out.Write)
	assert.Equal(t, domain.WeekSchedule(6, 8), item.Schedule)

	c.Handle(down(70, TargetItemBody, "li-1"))
	c.Handle(moveTo(70))
	c.Handle(moveTo(10))
	out = c.Handle(upAt(10))
	assert.Nil(t, out.Write)
	assert.Equal(t, domain.WeekSchedule(6, 8), item.Schedule)
	assert.Empty(t, store.schedules)
}

func TestController_SingleWeekItem(t *testing.T) {
	c, board, _ := newTestController(persistedItem("li-1", 3, 3))

	c.Handle(down(25, TargetItemBody, "li-1"))
	c.Handle(moveTo(45))
	assert.Equal(t, domain.WeekSchedule(5, 5), board.Item("li-1").Schedule, "a move keeps one week")
	c.Handle(upAt(45))

	c.Handle(down(45, TargetStartHandle, "li-1"))
	c.Handle(moveTo(45))
	assert.Equal(t, domain.WeekSchedule(5, 5), board.Item("li-1").Schedule)
	c.Handle(moveTo(65))
	assert.Equal(t, domain.WeekSchedule(5, 5), board.Item("li-1").Schedule, "start cannot pass the end")
	c.Handle(moveTo(35))
	assert.Equal(t, domain.WeekSchedule(4, 5), board.Item("li-1").Schedule)
	c.Handle(upAt(35))

	c.Handle(down(45, TargetEndHandle, "li-1"))
	c.Handle(moveTo(75))
	assert.Equal(t, domain.WeekSchedule(4, 8), board.Item("li-1").Schedule)
}

// randomGestureItem builds an item that may be dated, a one-week draft, or
// reach past the visible weeks.
func randomGestureItem(rng *rand.Rand, i, baseWeeks int, dated bool, anchor time.Time) *domain.BudgetLineItem {
	id := fmt.Sprintf("li-%d", i)
	if rng.Intn(4) == 0 {
		id = domain.NewDraftID()
	}
	item := &domain.BudgetLineItem{ID: id, StudyID: "st"}
	if dated {
		from := anchor.AddDate(0, 0, rng.Intn(baseWeeks*7+7)-7)
		item.Schedule = domain.DateSchedule(from, from.AddDate(0, 0, rng.Intn(21)))
		return item
	}
	start := rng.Intn(baseWeeks) + 1
	end := start
	if rng.Intn(3) > 0 {
		end += rng.Intn(baseWeeks - start + 1)
	}
	item.Schedule = domain.WeekSchedule(start, end)
	return item
}

func daySpan(s domain.Schedule) int {
	if !s.IsDated() {
		return 0
	}
	return dayNumber(*s.EndDate) - dayNumber(*s.StartDate)
}

// TestController_GestureBounds_Property drives random gestures over dated,
// week-relative, one-week and zoomed-out items. Items inside the visible
// weeks stay within 1 <= start <= end <= maxWeeks, a moved item keeps its
// length, a resized item keeps start < end, and items past the visible weeks
// or gestures without displacement change nothing.
func TestController_GestureBounds_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []TargetKind{TargetStartHandle, TargetEndHandle, TargetItemBody}
	anchor := day(2026, 1, 5)

	for trial := 0; trial < 300; trial++ {
		baseWeeks := rng.Intn(19) + 2
		visible := rng.Intn(baseWeeks) + 1
		width := float64(rng.Intn(200) + 20)
		dated := trial%2 == 1

		study := &domain.Study{ID: "st"}
		if dated {
			study = anchoredStudy(anchor, anchor.AddDate(0, 0, baseWeeks*7-1))
		}
		items := make([]*domain.BudgetLineItem, rng.Intn(4)+1)
		for i := range items {
			items[i] = randomGestureItem(rng, i, baseWeeks, dated, anchor)
		}
		mapper := NewMapper(study, visible)
		c := NewController(NewBoard(study, items, nil), newFakeStore(), mapper, Rect{Width: width, Height: 1})

		for g := 0; g < 10; g++ {
			target := items[rng.Intn(len(items))]
			kind := kinds[rng.Intn(len(kinds))]
			origin := target.Schedule
			reachable := mapper.Reachable(origin)
			originStart, originEnd := mapper.ScheduleWeeks(origin)
			x := rng.Float64() * width

			c.Handle(down(x, kind, target.ID))
			if rng.Intn(4) == 0 {
				c.Handle(moveTo(x))
				out := c.Handle(upAt(x))
				require.Equal(t, origin.String(), target.Schedule.String(), "trial %d: still pointer", trial)
				require.Nil(t, out.Write, "trial %d: still pointer", trial)
				continue
			}

			for m := 0; m < 5; m++ {
				c.Handle(moveTo(rng.Float64()*width*1.4 - width*0.2))
				if !reachable {
					require.Equal(t, origin.String(), target.Schedule.String(), "trial %d: past visible weeks", trial)
					continue
				}
				start, end := mapper.ScheduleWeeks(target.Schedule)
				require.GreaterOrEqual(t, start, 1, "trial %d", trial)
				require.LessOrEqual(t, start, end, "trial %d", trial)
				require.LessOrEqual(t, end, mapper.MaxWeeks(), "trial %d", trial)
				switch {
				case kind == TargetItemBody:
					require.Equal(t, originEnd-originStart, end-start, "trial %d: move keeps length", trial)
					require.Equal(t, daySpan(origin), daySpan(target.Schedule), "trial %d: move keeps days", trial)
				case originStart < originEnd || target.Schedule.String() != origin.String():
					require.Less(t, start, end, "trial %d: resize keeps a week", trial)
				}
			}
			if rng.Intn(2) == 0 {
				c.Handle(upAt(0))
			} else {
				c.Handle(leaveAt(0))
			}
			require.IsType(t, Idle{}, c.Gesture())
		}
	}
}
