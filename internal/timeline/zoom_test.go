package timeline

import (
	"testing"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestColumns_ZoomInRepeatsLabels(t *testing.T) {
	got := Columns(WeekLabels(4), 2)
	assert.Equal(t, []string{"S1", "S1", "S2", "S2", "S3", "S3", "S4", "S4"}, got)
}

func TestColumns_ZoomOutTruncates(t *testing.T) {
	got := Columns(WeekLabels(8), 0.5)
	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, got)
}

func TestColumns_ZoomOutKeepsAtLeastOneColumn(t *testing.T) {
	assert.Equal(t, []string{"S1"}, Columns(WeekLabels(2), 0.25))
}

func TestColumns_UnitZoomIsIdentity(t *testing.T) {
	labels := WeekLabels(5)
	assert.Equal(t, labels, Columns(labels, 1))
	assert.Nil(t, Columns(nil, 2))
}

func TestVisibleWeeks(t *testing.T) {
	assert.Equal(t, 8, VisibleWeeks(8, 3))
	assert.Equal(t, 6, VisibleWeeks(8, 0.75))
	assert.Equal(t, 1, VisibleWeeks(3, 0.25))
}

func TestZoomSteps(t *testing.T) {
	assert.Equal(t, 2.0, ZoomIn(1))
	assert.Equal(t, 4.0, ZoomIn(4))
	assert.Equal(t, 0.75, ZoomOut(1))
	assert.Equal(t, 0.25, ZoomOut(0.25))
	assert.Equal(t, 1.0, NormalizeZoom(1.3))
	assert.Equal(t, 0.5, NormalizeZoom(0.55))
}

func TestBaseWeekCount(t *testing.T) {
	t.Run("minimum", func(t *testing.T) {
		assert.Equal(t, MinBaseWeeks, BaseWeekCount(nil, nil))
	})

	t.Run("highest referenced week", func(t *testing.T) {
		items := []*domain.BudgetLineItem{
			{ID: "a", Schedule: domain.WeekSchedule(1, 3)},
			{ID: "b", Schedule: domain.WeekSchedule(2, 9)},
		}
		assert.Equal(t, 9, BaseWeekCount(nil, items))
	})

	t.Run("study span in absolute mode", func(t *testing.T) {
		study := anchoredStudy(day(2026, 1, 5), day(2026, 3, 1))
		assert.Equal(t, 8, BaseWeekCount(study, nil))
	})

	t.Run("dated item past the study end", func(t *testing.T) {
		study := anchoredStudy(day(2026, 1, 5), day(2026, 1, 25))
		items := []*domain.BudgetLineItem{
			{ID: "a", Schedule: domain.DateSchedule(day(2026, 1, 5), day(2026, 2, 20))},
		}
		assert.Equal(t, 7, BaseWeekCount(study, items))
	})
}
