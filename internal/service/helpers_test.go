package service

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/events"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db      *sql.DB
	studies repository.StudyRepo
	items   repository.LineItemRepo
	tasks   repository.TaskRepo
	apps    repository.ApplicationRepo
	uow     db.UnitOfWork
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:      database,
		studies: repository.NewSQLiteStudyRepo(database),
		items:   repository.NewSQLiteLineItemRepo(database),
		tasks:   repository.NewSQLiteTaskRepo(database),
		apps:    repository.NewSQLiteApplicationRepo(database),
		uow:     testutil.NewTestUoW(database),
	}
}

func (r repos) seedStudy(t *testing.T, opts ...testutil.StudyOption) *domain.Study {
	t.Helper()
	s := testutil.NewTestStudy("Study", opts...)
	require.NoError(t, r.studies.Create(context.Background(), s))
	return s
}

func (r repos) seedItem(t *testing.T, studyID, title string, opts ...testutil.LineItemOption) *domain.BudgetLineItem {
	t.Helper()
	item := testutil.NewTestLineItem(studyID, title, opts...)
	require.NoError(t, r.items.Create(context.Background(), item))
	return item
}

func (r repos) seedApps(t *testing.T, taskID string, statuses ...domain.ApplicationStatus) {
	t.Helper()
	for _, s := range statuses {
		app := testutil.NewTestApplication(taskID, "Applicant", testutil.WithApplicationStatus(s))
		require.NoError(t, r.apps.Create(context.Background(), app))
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type recordingPublisher struct {
	events.NoopPublisher
	sent []*events.Reconciled
	err  error
}

func (p *recordingPublisher) PublishReconciled(_ context.Context, ev *events.Reconciled) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, ev)
	return nil
}

func newLogBuffer() (*bytes.Buffer, UseCaseObserver) {
	var buf bytes.Buffer
	return &buf, NewLogUseCaseObserver(&buf)
}
