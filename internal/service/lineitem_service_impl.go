package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/google/uuid"
)

type lineItemService struct {
	items repository.LineItemRepo
}

func NewLineItemService(items repository.LineItemRepo) LineItemService {
	return &lineItemService{items: items}
}

// Create stores a copy of item under a fresh id and returns that id. Draft
// ids are never persisted.
func (s *lineItemService) Create(ctx context.Context, item *domain.BudgetLineItem) (string, error) {
	if item.StudyID == "" {
		return "", fmt.Errorf("line item needs a study")
	}
	c := item.Clone()
	if c.ID == "" || c.IsDraft() {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Color = domain.CoalesceStr(c.Color, domain.DefaultColor)
	c.Schedule = c.Schedule.Normalize()
	c.RecomputeAmount()
	if err := s.items.Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *lineItemService) GetByID(ctx context.Context, id string) (*domain.BudgetLineItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *lineItemService) ListByStudy(ctx context.Context, studyID string) ([]*domain.BudgetLineItem, error) {
	return s.items.ListByStudy(ctx, studyID)
}

func (s *lineItemService) UpdateSchedule(ctx context.Context, id string, sched domain.Schedule) error {
	if domain.IsDraftID(id) {
		return errUnsaved(id)
	}
	return s.items.UpdateSchedule(ctx, id, sched.Normalize(), time.Now().UTC())
}

func (s *lineItemService) UpdateFields(ctx context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error {
	if item.IsDraft() {
		return errUnsaved(item.ID)
	}
	c := item.Clone()
	c.UpdatedAt = time.Now().UTC()
	return s.items.UpdateFields(ctx, c, fields...)
}

// Delete removes the item. Task links go with it.
func (s *lineItemService) Delete(ctx context.Context, id string) error {
	if domain.IsDraftID(id) {
		return errUnsaved(id)
	}
	return s.items.Delete(ctx, id)
}

func errUnsaved(id string) error {
	return fmt.Errorf("line item %s has not been saved", id)
}
