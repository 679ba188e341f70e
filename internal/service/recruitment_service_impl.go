package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type recruitmentService struct {
	tasks     repository.TaskRepo
	apps      repository.ApplicationRepo
	reconcile ReconcileService
}

func NewRecruitmentService(tasks repository.TaskRepo, apps repository.ApplicationRepo, reconcile ReconcileService) RecruitmentService {
	return &recruitmentService{tasks: tasks, apps: apps, reconcile: reconcile}
}

func (s *recruitmentService) CreateTask(ctx context.Context, t *domain.RecruitmentTask) (*ReconcileResult, error) {
	if t.Title == "" {
		return nil, errors.New("task title is required")
	}
	if t.StudentsRequired != nil && *t.StudentsRequired < 0 {
		return nil, errors.New("students required must not be negative")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.reconcileStudy(ctx, t.StudyID)
}

func (s *recruitmentService) GetTask(ctx context.Context, id string) (*domain.RecruitmentTask, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *recruitmentService) ListTasks(ctx context.Context, studyID string) ([]*domain.RecruitmentTask, error) {
	return s.tasks.ListByStudy(ctx, studyID)
}

func (s *recruitmentService) UpdateTask(ctx context.Context, t *domain.RecruitmentTask) (*ReconcileResult, error) {
	if t.StudentsRequired != nil && *t.StudentsRequired < 0 {
		return nil, errors.New("students required must not be negative")
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.reconcileStudy(ctx, t.StudyID)
}

func (s *recruitmentService) DeleteTask(ctx context.Context, id string) (*ReconcileResult, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.reconcileStudy(ctx, t.StudyID)
}

func (s *recruitmentService) LinkItem(ctx context.Context, taskID, itemID string) (*ReconcileResult, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.Links(itemID) {
		return s.reconcileStudy(ctx, t.StudyID)
	}
	t.LinkedItems = append(t.LinkedItems, itemID)
	return s.UpdateTask(ctx, t)
}

func (s *recruitmentService) UnlinkItem(ctx context.Context, taskID, itemID string) (*ReconcileResult, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !t.Unlink(itemID) {
		return nil, fmt.Errorf("task %s does not link item %s", taskID, itemID)
	}
	return s.UpdateTask(ctx, t)
}

func (s *recruitmentService) AddApplication(ctx context.Context, a *domain.ApplicationRecord) (*ReconcileResult, error) {
	if a.ApplicantName == "" {
		return nil, errors.New("applicant name is required")
	}
	t, err := s.tasks.GetByID(ctx, a.TaskID)
	if err != nil {
		return nil, err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = domain.ApplicationPending
	}
	if err := s.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.reconcileStudy(ctx, t.StudyID)
}

func (s *recruitmentService) ListApplications(ctx context.Context, taskID string) ([]*domain.ApplicationRecord, error) {
	return s.apps.ListByTask(ctx, taskID)
}

func (s *recruitmentService) SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*ReconcileResult, error) {
	if !domain.ValidApplicationStatuses[string(status)] {
		return nil, fmt.Errorf("invalid application status %q", status)
	}
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apps.UpdateStatus(ctx, id, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.reconcileTask(ctx, a.TaskID)
}

func (s *recruitmentService) RemoveApplication(ctx context.Context, id string) (*ReconcileResult, error) {
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apps.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.reconcileTask(ctx, a.TaskID)
}

func (s *recruitmentService) reconcileTask(ctx context.Context, taskID string) (*ReconcileResult, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.reconcileStudy(ctx, t.StudyID)
}

// reconcileStudy re-reads the study's tasks so the aggregates reflect the
// mutation that just happened.
func (s *recruitmentService) reconcileStudy(ctx context.Context, studyID string) (*ReconcileResult, error) {
	res, err := s.reconcile.ReconcileStudy(ctx, studyID)
	if err != nil {
		return res, fmt.Errorf("reconciling study: %w", err)
	}
	return res, nil
}
