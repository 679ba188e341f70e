package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type StudyRepo interface {
	Create(ctx context.Context, s *domain.Study) error
	GetByID(ctx context.Context, id string) (*domain.Study, error)
	List(ctx context.Context) ([]*domain.Study, error)
	Update(ctx context.Context, s *domain.Study) error
	Delete(ctx context.Context, id string) error
}

type LineItemRepo interface {
	Create(ctx context.Context, item *domain.BudgetLineItem) error
	GetByID(ctx context.Context, id string) (*domain.BudgetLineItem, error)
	ListByStudy(ctx context.Context, studyID string) ([]*domain.BudgetLineItem, error)
	// UpdateSchedule writes the two bounds of the interval and nothing else.
	UpdateSchedule(ctx context.Context, id string, s domain.Schedule, updatedAt time.Time) error
	// UpdateFields writes only the named fields of item.
	UpdateFields(ctx context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error
	// SetAggregate stores the recruitment aggregate; nil clears it to NULL.
	SetAggregate(ctx context.Context, id string, agg *domain.RecruitmentAggregate) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.RecruitmentTask) error
	GetByID(ctx context.Context, id string) (*domain.RecruitmentTask, error)
	ListByStudy(ctx context.Context, studyID string) ([]*domain.RecruitmentTask, error)
	// Update rewrites the task and replaces its item links.
	Update(ctx context.Context, t *domain.RecruitmentTask) error
	Delete(ctx context.Context, id string) error
}

type ApplicationRepo interface {
	Create(ctx context.Context, a *domain.ApplicationRecord) error
	GetByID(ctx context.Context, id string) (*domain.ApplicationRecord, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.ApplicationRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	CountByTaskAndStatus(ctx context.Context, taskID string, statuses ...domain.ApplicationStatus) (int, error)
}
