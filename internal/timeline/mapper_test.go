package timeline

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func anchoredStudy(start, end time.Time) *domain.Study {
	return &domain.Study{ID: "st-1", Name: "Anchored", StartDate: &start, EndDate: &end}
}

func TestWeekToDate(t *testing.T) {
	anchor := day(2026, 1, 5)
	assert.Equal(t, anchor, WeekToDate(1, anchor))
	assert.Equal(t, day(2026, 1, 12), WeekToDate(2, anchor))
	assert.Equal(t, day(2026, 3, 2), WeekToDate(9, anchor))
}

func TestDateToWeek(t *testing.T) {
	anchor := day(2026, 1, 5)
	assert.Equal(t, 1, DateToWeek(anchor, anchor))
	assert.Equal(t, 1, DateToWeek(day(2026, 1, 11), anchor))
	assert.Equal(t, 2, DateToWeek(day(2026, 1, 12), anchor))
	assert.Equal(t, 1, DateToWeek(day(2025, 12, 1), anchor), "dates before the anchor fall into week 1")
}

func TestDateToWeek_IgnoresTimeOfDay(t *testing.T) {
	anchor := time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 2, DateToWeek(time.Date(2026, 1, 12, 1, 0, 0, 0, time.UTC), anchor))
}

func TestWeekRoundTrip_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		w := rng.Intn(520) + 1
		anchor := day(2000, 1, 1).AddDate(0, 0, rng.Intn(20000))

		got := DateToWeek(WeekToDate(w, anchor), anchor)
		assert.Equal(t, w, got, "trial %d: week %d anchored at %s", trial, w, anchor.Format(domain.DateLayout))
	}
}

func TestBucketWeek_TruncatesIntoEpochBuckets(t *testing.T) {
	// 1970-01-01 is a Thursday, so epoch buckets run Thursday..Wednesday.
	anchor := day(2026, 1, 5) // Monday
	assert.Equal(t, 1, BucketWeek(anchor, anchor))
	assert.Equal(t, 2, BucketWeek(day(2026, 1, 8), anchor), "the next Thursday opens a new bucket")
	assert.Equal(t, 1, DateToWeek(day(2026, 1, 8), anchor))
	assert.Equal(t, 1, BucketWeek(day(2025, 6, 1), anchor))
}

func TestPositionPercent(t *testing.T) {
	assert.InDelta(t, 12.5, PositionPercent(2, 1, 9), 1e-9)
	assert.InDelta(t, 0, PositionPercent(0, 1, 9), 1e-9)
	assert.InDelta(t, 100, PositionPercent(20, 1, 9), 1e-9)
	assert.InDelta(t, 0, PositionPercent(3, 5, 5), 1e-9, "empty span")
}

func TestWidthPercent(t *testing.T) {
	assert.InDelta(t, 50, WidthPercent(2, 6, 8), 1e-9)
	assert.InDelta(t, MinWidthPercent, WidthPercent(3, 3, 8), 1e-9)
	assert.InDelta(t, MinWidthPercent, WidthPercent(6, 2, 8), 1e-9)
	assert.InDelta(t, 100, WidthPercent(1, 40, 8), 1e-9)
	assert.InDelta(t, 100, WidthPercent(1, 2, 0), 1e-9)
}

func TestWidthPercent_FloorProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 1000; trial++ {
		start := rng.Float64()*200 - 100
		end := rng.Float64()*200 - 100
		span := rng.Float64()*100 - 10

		w := WidthPercent(start, end, span)
		assert.GreaterOrEqual(t, w, MinWidthPercent, "trial %d", trial)
		assert.LessOrEqual(t, w, 100.0, "trial %d", trial)
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w := WidthPercent(0, v, 8)
		assert.GreaterOrEqual(t, w, MinWidthPercent)
		assert.LessOrEqual(t, w, 100.0)
	}
}

func TestMapper_RelativePlacement(t *testing.T) {
	m := NewMapper(nil, 8)
	require.Equal(t, domain.ModeRelative, m.Mode())
	require.Equal(t, 8, m.MaxWeeks())

	left, width := m.Place(domain.WeekSchedule(2, 5))
	assert.InDelta(t, 12.5, left, 1e-9)
	assert.InDelta(t, 50, width, 1e-9)
}

func TestMapper_PlacementStaysOnScreen(t *testing.T) {
	m := NewMapper(nil, 40)

	left, width := m.Place(domain.WeekSchedule(45, 45))
	assert.InDelta(t, MinWidthPercent, width, 1e-9)
	assert.InDelta(t, 100-MinWidthPercent, left, 1e-9)
}

func TestMapper_FallsBackToRelativeWithoutBothAnchors(t *testing.T) {
	start := day(2026, 1, 5)
	m := NewMapper(&domain.Study{StartDate: &start}, 6)
	assert.Equal(t, domain.ModeRelative, m.Mode())
	assert.Equal(t, 6, m.MaxWeeks())
}

func TestMapper_AbsolutePlacement(t *testing.T) {
	m := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 2, 1)), 4)
	require.Equal(t, domain.ModeAbsolute, m.Mode())
	require.Equal(t, 4, m.MaxWeeks())

	left, width := m.Place(domain.WeekSchedule(2, 3))
	assert.InDelta(t, 25, left, 1e-9)
	assert.InDelta(t, 50, width, 1e-9)

	left, width = m.Place(domain.DateSchedule(day(2026, 1, 5), day(2026, 1, 11)))
	assert.InDelta(t, 0, left, 1e-9)
	assert.InDelta(t, 25, width, 1e-9)
}

func TestMapper_AbsoluteWindowShrinksWhenZoomedOut(t *testing.T) {
	m := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 3, 1)), 4)

	from, to := m.Window()
	assert.Equal(t, day(2026, 1, 5), from)
	assert.Equal(t, day(2026, 2, 1), to)
	assert.Equal(t, 4, m.MaxWeeks())
}

func TestMapper_PercentToWeek(t *testing.T) {
	m := NewMapper(nil, 8)
	assert.Equal(t, 1, m.PercentToWeek(0))
	assert.Equal(t, 2, m.PercentToWeek(12.5))
	assert.Equal(t, 8, m.PercentToWeek(99.9))
	assert.Equal(t, 8, m.PercentToWeek(100))
	assert.Equal(t, 1, m.PercentToWeek(-40))
}

func TestMapper_PercentToDate(t *testing.T) {
	m := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 2, 1)), 4)
	assert.Equal(t, day(2026, 1, 5), m.PercentToDate(0))
	assert.Equal(t, day(2026, 1, 19), m.PercentToDate(50))
	assert.Equal(t, day(2026, 2, 1), m.PercentToDate(100))
}

func TestMapper_RangeToSchedule(t *testing.T) {
	rel := NewMapper(nil, 8)
	assert.Equal(t, domain.WeekSchedule(1, 3), rel.RangeToSchedule(30, 10), "bounds are ordered")

	abs := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 2, 1)), 4)
	s := abs.RangeToSchedule(0, 50)
	require.True(t, s.IsDated())
	assert.Equal(t, day(2026, 1, 5), *s.StartDate)
	assert.Equal(t, day(2026, 1, 19), *s.EndDate)
}

func TestMapper_ShiftScheduleKeepsWeekdays(t *testing.T) {
	m := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 3, 1)), 8)

	dated := domain.DateSchedule(day(2026, 1, 14), day(2026, 1, 27))
	start, end := m.ScheduleWeeks(dated)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	moved := m.ShiftSchedule(dated, 1, 1)
	require.True(t, moved.IsDated())
	assert.Equal(t, day(2026, 1, 21), *moved.StartDate)
	assert.Equal(t, day(2026, 2, 3), *moved.EndDate)

	stretched := m.ShiftSchedule(dated, 0, 2)
	assert.Equal(t, day(2026, 1, 14), *stretched.StartDate, "untouched bound keeps its day")
	assert.Equal(t, day(2026, 2, 10), *stretched.EndDate)

	assert.Equal(t, domain.WeekSchedule(3, 6), m.ShiftSchedule(domain.WeekSchedule(2, 4), 1, 2))
	assert.Equal(t, domain.WeekSchedule(2, 4), NewMapper(nil, 8).ShiftSchedule(domain.WeekSchedule(2, 4), 0, 0))
}

func TestMapper_Reachable(t *testing.T) {
	rel := NewMapper(nil, 4)
	assert.True(t, rel.Reachable(domain.WeekSchedule(1, 4)))
	assert.False(t, rel.Reachable(domain.WeekSchedule(3, 5)))
	assert.False(t, rel.Reachable(domain.WeekSchedule(6, 8)))

	abs := NewMapper(anchoredStudy(day(2026, 1, 5), day(2026, 3, 1)), 4)
	assert.True(t, abs.Reachable(domain.DateSchedule(day(2026, 1, 14), day(2026, 2, 1))))
	assert.False(t, abs.Reachable(domain.DateSchedule(day(2026, 1, 14), day(2026, 2, 2))), "runs into week 5")
	assert.False(t, abs.Reachable(domain.DateSchedule(day(2026, 1, 1), day(2026, 1, 9))), "starts before the study")
	assert.True(t, abs.Reachable(domain.WeekSchedule(2, 4)))
}
