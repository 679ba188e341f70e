package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/events"
	"github.com/alexanderramin/studyplan/internal/recruitment"
	"github.com/alexanderramin/studyplan/internal/repository"
)

// applicationCounter counts recruited applications straight from the store.
type applicationCounter struct {
	apps repository.ApplicationRepo
}

func (c applicationCounter) CountRecruited(ctx context.Context, taskID string) (int, error) {
	return c.apps.CountByTaskAndStatus(ctx, taskID, domain.RecruitedStatuses...)
}

type reconcileService struct {
	tasks     repository.TaskRepo
	items     repository.LineItemRepo
	counter   recruitment.RecruitedCounter
	uow       db.UnitOfWork
	publisher events.Publisher
	observer  UseCaseObserver
}

func NewReconcileService(
	tasks repository.TaskRepo,
	items repository.LineItemRepo,
	apps repository.ApplicationRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) ReconcileService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &reconcileService{
		tasks:     tasks,
		items:     items,
		counter:   applicationCounter{apps: apps},
		uow:       uow,
		publisher: publisher,
		observer:  combineObservers(observers),
	}
}

func (s *reconcileService) ReconcileStudy(ctx context.Context, studyID string) (*ReconcileResult, error) {
	tasks, err := s.tasks.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	return s.Reconcile(ctx, studyID, tasks, items)
}

func (s *reconcileService) Reconcile(ctx context.Context, studyID string, tasks []*domain.RecruitmentTask, items []*domain.BudgetLineItem) (res *ReconcileResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"study": studyID}
	defer func() { observe(ctx, s.observer, "reconcile", startedAt, fields, err) }()

	updates, stats, err := recruitment.Reconcile(ctx, s.counter, tasks, items)
	if err != nil {
		return nil, err
	}
	res = &ReconcileResult{Updates: updates, Stats: stats}
	fields["tasks"] = stats.Tasks
	fields["items"] = stats.Items
	fields["items_with_aggregate"] = stats.WithAggregate
	fields["items_cleared"] = stats.Cleared

	written := make([]string, 0, len(updates))
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteLineItemRepo(tx)
		for _, u := range updates {
			if domain.IsDraftID(u.ItemID) {
				continue
			}
			if err := txItems.SetAggregate(ctx, u.ItemID, u.Aggregate); err != nil {
				return err
			}
			written = append(written, u.ItemID)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("writing recruitment aggregates: %w", err)
	}

	ev := events.NewReconciled(studyID, written, time.Now())
	if pubErr := s.publisher.PublishReconciled(ctx, ev); pubErr != nil {
		fields["publish_error"] = pubErr.Error()
	}
	return res, nil
}
