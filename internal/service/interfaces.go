package service

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/recruitment"
)

type StudyService interface {
	Create(ctx context.Context, s *domain.Study) error
	GetByID(ctx context.Context, id string) (*domain.Study, error)
	List(ctx context.Context) ([]*domain.Study, error)
	// UpdateDates sets or clears the study's calendar anchor. Clearing it
	// converts dated line items back to week bounds.
	UpdateDates(ctx context.Context, id string, start, end *time.Time) (*domain.Study, error)
	Delete(ctx context.Context, id string) error
}

// LineItemService persists budget line items. It satisfies
// timeline.LineItemStore.
type LineItemService interface {
	Create(ctx context.Context, item *domain.BudgetLineItem) (string, error)
	GetByID(ctx context.Context, id string) (*domain.BudgetLineItem, error)
	ListByStudy(ctx context.Context, studyID string) ([]*domain.BudgetLineItem, error)
	UpdateSchedule(ctx context.Context, id string, s domain.Schedule) error
	UpdateFields(ctx context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error
	Delete(ctx context.Context, id string) error
}

// RecruitmentService mutates tasks and applications. Every mutation is
// followed by a reconciliation of the owning study.
type RecruitmentService interface {
	CreateTask(ctx context.Context, t *domain.RecruitmentTask) (*ReconcileResult, error)
	GetTask(ctx context.Context, id string) (*domain.RecruitmentTask, error)
	ListTasks(ctx context.Context, studyID string) ([]*domain.RecruitmentTask, error)
	UpdateTask(ctx context.Context, t *domain.RecruitmentTask) (*ReconcileResult, error)
	DeleteTask(ctx context.Context, id string) (*ReconcileResult, error)
	LinkItem(ctx context.Context, taskID, itemID string) (*ReconcileResult, error)
	UnlinkItem(ctx context.Context, taskID, itemID string) (*ReconcileResult, error)

	AddApplication(ctx context.Context, a *domain.ApplicationRecord) (*ReconcileResult, error)
	ListApplications(ctx context.Context, taskID string) ([]*domain.ApplicationRecord, error)
	SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*ReconcileResult, error)
	RemoveApplication(ctx context.Context, id string) (*ReconcileResult, error)
}

// ReconcileResult is the outcome of one reconciliation pass.
type ReconcileResult struct {
	Updates []recruitment.Update
	Stats   recruitment.Stats
}

type ReconcileService interface {
	// Reconcile recomputes the aggregates of items from tasks, applies them
	// to items and writes them in one batch. The in-memory items keep the
	// new aggregates when the write fails.
	Reconcile(ctx context.Context, studyID string, tasks []*domain.RecruitmentTask, items []*domain.BudgetLineItem) (*ReconcileResult, error)
	// ReconcileStudy loads the study's tasks and items and reconciles them.
	ReconcileStudy(ctx context.Context, studyID string) (*ReconcileResult, error)
}
