package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStudy(t *testing.T, db *sql.DB) *domain.Study {
	t.Helper()
	study := testutil.NewTestStudy("Seed")
	require.NoError(t, NewSQLiteStudyRepo(db).Create(context.Background(), study))
	return study
}

func TestLineItemRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	item := testutil.NewTestLineItem(study.ID, "Incentives",
		testutil.WithWeeks(3, 7),
		testutil.WithUnitPricing("12", "25.50"),
	)
	require.NoError(t, repo.Create(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Incentives", fetched.Title)
	assert.Equal(t, "S3", fetched.Schedule.StartWeek)
	assert.Equal(t, "S7", fetched.Schedule.EndWeek)
	assert.Nil(t, fetched.Schedule.StartDate)
	assert.True(t, decimal.RequireFromString("306").Equal(fetched.Amount), "amount = %s", fetched.Amount)
	require.NotNil(t, fetched.Units)
	assert.True(t, decimal.NewFromInt(12).Equal(*fetched.Units))
	assert.Nil(t, fetched.Hours)
	assert.Nil(t, fetched.Recruitment, "no aggregate until a task links the item")
}

func TestLineItemRepo_DatedScheduleRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	item := testutil.NewTestLineItem(study.ID, "Fieldwork", testutil.WithDates(start, end))
	require.NoError(t, repo.Create(ctx, item))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, fetched.Schedule.IsDated())
	assert.True(t, start.Equal(*fetched.Schedule.StartDate))
	assert.True(t, end.Equal(*fetched.Schedule.EndDate))
	assert.Empty(t, fetched.Schedule.StartWeek)
}

func TestLineItemRepo_UpdateSchedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	item := testutil.NewTestLineItem(study.ID, "Moves")
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateSchedule(ctx, item.ID, domain.WeekSchedule(4, 9), time.Now()))
	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	start, end := fetched.Schedule.Weeks()
	assert.Equal(t, 4, start)
	assert.Equal(t, 9, end)

	// Switching to dates drops the week labels on read.
	d := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateSchedule(ctx, item.ID, domain.DateSchedule(d, d.AddDate(0, 0, 6)), time.Now()))
	fetched, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Schedule.IsDated())
}

func TestLineItemRepo_UpdateSchedule_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)

	err := repo.UpdateSchedule(context.Background(), "missing", domain.WeekSchedule(1, 1), time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineItemRepo_UpdateFields_OnlyNamedColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	item := testutil.NewTestLineItem(study.ID, "Original", testutil.WithAmount("50"))
	require.NoError(t, repo.Create(ctx, item))

	edited := item.Clone()
	edited.Title = "Renamed"
	edited.Amount = decimal.NewFromInt(999)
	require.NoError(t, repo.UpdateFields(ctx, edited, domain.FieldTitle))

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Title)
	assert.True(t, decimal.NewFromInt(50).Equal(fetched.Amount), "amount was not named and must not change")
}

func TestLineItemRepo_UpdateFields_UnknownField(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	item := testutil.NewTestLineItem(study.ID, "X")
	require.NoError(t, repo.Create(ctx, item))

	err := repo.UpdateFields(ctx, item, domain.LineItemField("schedule"))
	assert.ErrorContains(t, err, "unknown line item field")
}

func TestLineItemRepo_SetAggregate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	study := seedStudy(t, db)

	item := testutil.NewTestLineItem(study.ID, "Recruited")
	require.NoError(t, repo.Create(ctx, item))

	agg := &domain.RecruitmentAggregate{StudentsRequired: 5, StudentsRecruited: 5, Status: domain.RecruitmentComplete}
	require.NoError(t, repo.SetAggregate(ctx, item.ID, agg))
	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Recruitment)
	assert.Equal(t, *agg, *fetched.Recruitment)

	require.NoError(t, repo.SetAggregate(ctx, item.ID, nil))
	fetched, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Recruitment)
}

func TestLineItemRepo_ListByStudy_Scoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLineItemRepo(db)
	ctx := context.Background()
	s1 := seedStudy(t, db)
	s2 := seedStudy(t, db)

	require.NoError(t, repo.Create(ctx, testutil.NewTestLineItem(s1.ID, "A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestLineItem(s1.ID, "B")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestLineItem(s2.ID, "C")))

	list, err := repo.ListByStudy(ctx, s1.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
