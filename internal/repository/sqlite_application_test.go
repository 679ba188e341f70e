package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTask(t *testing.T, repo *SQLiteTaskRepo, studyID string) *domain.RecruitmentTask {
	t.Helper()
	task := testutil.NewTestTask(studyID, "Recruit")
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestApplicationRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	study := seedStudy(t, db)
	task := seedTask(t, NewSQLiteTaskRepo(db), study.ID)
	repo := NewSQLiteApplicationRepo(db)

	app := testutil.NewTestApplication(task.ID, "Ada", testutil.WithEmail("ada@example.com"))
	require.NoError(t, repo.Create(ctx, app))

	apps, err := repo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ada", apps[0].ApplicantName)
	assert.Equal(t, "ada@example.com", apps[0].ApplicantEmail)
	assert.Equal(t, domain.ApplicationPending, apps[0].Status)
}

func TestApplicationRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	study := seedStudy(t, db)
	task := seedTask(t, NewSQLiteTaskRepo(db), study.ID)
	repo := NewSQLiteApplicationRepo(db)

	app := testutil.NewTestApplication(task.ID, "Grace")
	require.NoError(t, repo.Create(ctx, app))
	require.NoError(t, repo.UpdateStatus(ctx, app.ID, domain.ApplicationAccepted, time.Now()))

	fetched, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationAccepted, fetched.Status)

	err = repo.UpdateStatus(ctx, "missing", domain.ApplicationAccepted, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationRepo_RejectsUnknownStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	study := seedStudy(t, db)
	task := seedTask(t, NewSQLiteTaskRepo(db), study.ID)
	repo := NewSQLiteApplicationRepo(db)

	app := testutil.NewTestApplication(task.ID, "Bad", testutil.WithApplicationStatus("waitlisted"))
	assert.Error(t, repo.Create(ctx, app))
}

func TestApplicationRepo_CountByTaskAndStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	study := seedStudy(t, db)
	taskRepo := NewSQLiteTaskRepo(db)
	task := seedTask(t, taskRepo, study.ID)
	other := seedTask(t, taskRepo, study.ID)
	repo := NewSQLiteApplicationRepo(db)

	for _, s := range []domain.ApplicationStatus{
		domain.ApplicationAccepted,
		domain.ApplicationAccepted,
		domain.ApplicationManuallyAdded,
		domain.ApplicationRejected,
		domain.ApplicationPending,
	} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestApplication(task.ID, "x", testutil.WithApplicationStatus(s))))
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestApplication(other.ID, "y",
		testutil.WithApplicationStatus(domain.ApplicationAccepted))))

	n, err := repo.CountByTaskAndStatus(ctx, task.ID, domain.RecruitedStatuses...)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountByTaskAndStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
