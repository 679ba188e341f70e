package timeline

import (
	"math"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// MinBaseWeeks is the smallest number of weeks a timeline ever shows.
const MinBaseWeeks = 4

// DefaultZoom renders one column per week.
const DefaultZoom = 1.0

// ZoomLevels are the zoom factors reachable with zoom in/out.
var ZoomLevels = []float64{0.25, 0.5, 0.75, 1, 2, 3, 4}

// BaseWeekCount is the number of weeks the timeline covers at zoom 1: at
// least MinBaseWeeks, the highest week any item reaches and, in absolute
// mode, the weeks spanned by the study.
func BaseWeekCount(study *domain.Study, items []*domain.BudgetLineItem) int {
	n := MinBaseWeeks
	anchored := study.Mode() == domain.ModeAbsolute
	if anchored {
		n = max(n, DateToWeek(*study.EndDate, *study.StartDate))
	}
	for _, it := range items {
		var end int
		if anchored && it.Schedule.IsDated() {
			end = DateToWeek(*it.Schedule.EndDate, *study.StartDate)
		} else {
			_, end = it.Schedule.Weeks()
		}
		n = max(n, end)
	}
	return n
}

// WeekLabels returns S1..Sn.
func WeekLabels(n int) []string {
	labels := make([]string, 0, n)
	for w := 1; w <= n; w++ {
		labels = append(labels, domain.FormatWeek(w))
	}
	return labels
}

// Columns returns the rendered timeline columns for the given week labels.
// Zooming in (z >= 1) repeats every label floor(z) times so each week gets
// finer pointer resolution over the same domain. Zooming out (z < 1) keeps
// only the first max(1, floor(n*z)) labels: the tail is dropped, never merged.
func Columns(labels []string, zoom float64) []string {
	if len(labels) == 0 {
		return nil
	}
	if zoom >= 1 {
		repeat := int(math.Floor(zoom))
		cols := make([]string, 0, len(labels)*repeat)
		for _, l := range labels {
			for i := 0; i < repeat; i++ {
				cols = append(cols, l)
			}
		}
		return cols
	}
	keep := VisibleWeeks(len(labels), zoom)
	cols := make([]string, keep)
	copy(cols, labels[:keep])
	return cols
}

// VisibleWeeks is the number of distinct weeks rendered for n base weeks.
func VisibleWeeks(n int, zoom float64) int {
	if zoom >= 1 {
		return n
	}
	return max(1, int(math.Floor(float64(n)*zoom)))
}

// ZoomIn returns the next larger zoom level.
func ZoomIn(z float64) float64 {
	i := zoomIndex(z)
	if i < len(ZoomLevels)-1 {
		i++
	}
	return ZoomLevels[i]
}

// ZoomOut returns the next smaller zoom level.
func ZoomOut(z float64) float64 {
	i := zoomIndex(z)
	if i > 0 {
		i--
	}
	return ZoomLevels[i]
}

// NormalizeZoom snaps z to the nearest known level.
func NormalizeZoom(z float64) float64 {
	return ZoomLevels[zoomIndex(z)]
}

func zoomIndex(z float64) int {
	best := 0
	for i, level := range ZoomLevels {
		if math.Abs(level-z) < math.Abs(ZoomLevels[best]-z) {
			best = i
		}
	}
	return best
}
