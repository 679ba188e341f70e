// Package timeline maps schedule intervals onto a horizontal track and turns
// pointer gestures on that track into interval edits.
package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

const (
	// MinWidthPercent keeps degenerate intervals visible and clickable.
	MinWidthPercent = 5.0
	daysPerWeek     = 7
	secondsPerDay   = 24 * 60 * 60
)

// WeekToDate returns the first day of week (1-based) counted from anchor.
func WeekToDate(week int, anchor time.Time) time.Time {
	return domain.TruncateDay(anchor).AddDate(0, 0, (week-1)*daysPerWeek)
}

// DateToWeek returns the 1-based week containing date, counted from anchor.
// Dates before the anchor fall into week 1.
func DateToWeek(date, anchor time.Time) int {
	w := floorDiv(dayNumber(date)-dayNumber(anchor), daysPerWeek) + 1
	if w < 1 {
		return 1
	}
	return w
}

// BucketWeek converts date into a week index by truncating days-since-epoch
// into 7-day buckets and counting from the anchor's bucket. It is lossy by
// construction: two dates inside the same epoch bucket share a week even when
// the anchor does not start that bucket.
func BucketWeek(date, anchor time.Time) int {
	w := floorDiv(dayNumber(date), daysPerWeek) - floorDiv(dayNumber(anchor), daysPerWeek) + 1
	if w < 1 {
		return 1
	}
	return w
}

// PositionPercent returns how far start lies between timelineStart and
// timelineEnd, in [0, 100].
func PositionPercent(start, timelineStart, timelineEnd float64) float64 {
	span := timelineEnd - timelineStart
	if span <= 0 || math.IsNaN(span) {
		return 0
	}
	return clampFloat((start-timelineStart)/span*100, 0, 100)
}

// WidthPercent returns the share of span covered by [start, end), clamped to
// [MinWidthPercent, 100]. Zero, negative or undefined durations get the floor.
func WidthPercent(start, end, span float64) float64 {
	if span <= 0 || math.IsNaN(span) {
		return 100
	}
	w := (end - start) / span * 100
	if math.IsNaN(w) {
		return MinWidthPercent
	}
	return clampFloat(w, MinWidthPercent, 100)
}

// Mapper translates between a study's schedule space and track percentages.
// The zero value is a one-week relative mapper.
type Mapper struct {
	mode     domain.ScheduleMode
	start    time.Time
	end      time.Time
	maxWeeks int
}

// NewMapper builds a mapper for study showing visibleWeeks weeks. Studies
// with both anchor dates map in absolute mode; a zoomed-out week count
// shortens the absolute window to the weeks that are rendered.
func NewMapper(study *domain.Study, visibleWeeks int) Mapper {
	if visibleWeeks < 1 {
		visibleWeeks = 1
	}
	m := Mapper{mode: domain.ModeRelative, maxWeeks: visibleWeeks}
	if study.Mode() != domain.ModeAbsolute {
		return m
	}

	start := domain.TruncateDay(*study.StartDate)
	end := domain.TruncateDay(*study.EndDate)
	if end.Before(start) {
		end = start
	}
	if limit := WeekToDate(visibleWeeks, start).AddDate(0, 0, daysPerWeek-1); limit.Before(end) {
		end = limit
	}
	m.mode = domain.ModeAbsolute
	m.start = start
	m.end = end
	m.maxWeeks = DateToWeek(end, start)
	return m
}

func (m Mapper) Mode() domain.ScheduleMode { return m.mode }

// MaxWeeks is the largest week index reachable by a gesture.
func (m Mapper) MaxWeeks() int {
	if m.maxWeeks < 1 {
		return 1
	}
	return m.maxWeeks
}

// Window returns the absolute date range; zero times in relative mode.
func (m Mapper) Window() (time.Time, time.Time) {
	return m.start, m.end
}

// spanDays counts the days of the absolute window, end day included.
func (m Mapper) spanDays() int {
	return dayNumber(m.end) - dayNumber(m.start) + 1
}

// Place returns the left offset and width of s as track percentages. The
// offset is clamped to [0, 100-width] so the interval stays on screen.
func (m Mapper) Place(s domain.Schedule) (left, width float64) {
	if m.mode == domain.ModeAbsolute {
		from, to := m.scheduleDates(s)
		origin := float64(dayNumber(m.start))
		span := float64(m.spanDays())
		width = WidthPercent(float64(dayNumber(from)), float64(dayNumber(to)+1), span)
		left = PositionPercent(float64(dayNumber(from)), origin, origin+span)
	} else {
		start, end := s.Weeks()
		span := float64(m.MaxWeeks())
		width = WidthPercent(float64(start), float64(end+1), span)
		left = PositionPercent(float64(start), 1, 1+span)
	}
	return clampFloat(left, 0, 100-width), width
}

// scheduleDates resolves s to calendar dates. Week bounds are anchored on
// the study start and end weeks cover their last day.
func (m Mapper) scheduleDates(s domain.Schedule) (time.Time, time.Time) {
	if s.IsDated() {
		from, to := domain.TruncateDay(*s.StartDate), domain.TruncateDay(*s.EndDate)
		if to.Before(from) {
			to = from
		}
		return from, to
	}
	start, end := s.Weeks()
	return WeekToDate(start, m.start), WeekToDate(end, m.start).AddDate(0, 0, daysPerWeek-1)
}

// ScheduleWeeks returns s as week indices in this mapper's space.
func (m Mapper) ScheduleWeeks(s domain.Schedule) (int, int) {
	if m.mode == domain.ModeAbsolute && s.IsDated() {
		from, to := m.scheduleDates(s)
		return DateToWeek(from, m.start), DateToWeek(to, m.start)
	}
	return s.Weeks()
}

// ShiftSchedule moves the start and end of s by whole weeks. Dated bounds
// keep their weekday.
func (m Mapper) ShiftSchedule(s domain.Schedule, startWeeks, endWeeks int) domain.Schedule {
	if m.mode == domain.ModeAbsolute && s.IsDated() {
		from, to := m.scheduleDates(s)
		return domain.DateSchedule(
			from.AddDate(0, 0, startWeeks*daysPerWeek),
			to.AddDate(0, 0, endWeeks*daysPerWeek),
		)
	}
	start, end := s.Weeks()
	return domain.WeekSchedule(start+startWeeks, end+endWeeks)
}

// Reachable reports whether all of s lies inside weeks [1, MaxWeeks].
func (m Mapper) Reachable(s domain.Schedule) bool {
	if m.mode == domain.ModeAbsolute && s.IsDated() {
		from, to := m.scheduleDates(s)
		return !from.Before(m.start) && DateToWeek(to, m.start) <= m.MaxWeeks()
	}
	start, end := s.Weeks()
	return start >= 1 && end <= m.MaxWeeks()
}

// PercentToWeek is the inverse of the week position: the week under pct,
// clamped to [1, MaxWeeks].
func (m Mapper) PercentToWeek(pct float64) int {
	if m.mode == domain.ModeAbsolute {
		return clampInt(DateToWeek(m.PercentToDate(pct), m.start), 1, m.MaxWeeks())
	}
	w := int(math.Floor(clampFloat(pct, 0, 100)/100*float64(m.MaxWeeks()))) + 1
	return clampInt(w, 1, m.MaxWeeks())
}

// PercentToDate returns the day under pct in absolute mode.
func (m Mapper) PercentToDate(pct float64) time.Time {
	offset := int(math.Floor(clampFloat(pct, 0, 100) / 100 * float64(m.spanDays())))
	if offset >= m.spanDays() {
		offset = m.spanDays() - 1
	}
	return m.start.AddDate(0, 0, offset)
}

// RangeToSchedule converts a selected percent range into a schedule: dates
// in absolute mode, week labels otherwise.
func (m Mapper) RangeToSchedule(a, b float64) domain.Schedule {
	lo, hi := math.Min(a, b), math.Max(a, b)
	if m.mode == domain.ModeAbsolute {
		return domain.DateSchedule(m.PercentToDate(lo), m.PercentToDate(hi))
	}
	return domain.WeekSchedule(m.PercentToWeek(lo), m.PercentToWeek(hi))
}

// dayNumber counts whole days since the Unix epoch for t's calendar date.
func dayNumber(t time.Time) int {
	return int(domain.TruncateDay(t).Unix() / secondsPerDay)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
