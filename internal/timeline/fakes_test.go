package timeline

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type fieldCall struct {
	ID     string
	Title  string
	Fields []domain.LineItemField
}

// fakeStore records every call made against the line-item store.
type fakeStore struct {
	nextID    int
	created   []*domain.BudgetLineItem
	schedules map[string]domain.Schedule
	fields    []fieldCall
	deleted   []string

	createErr   error
	scheduleErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{schedules: make(map[string]domain.Schedule)}
}

func (f *fakeStore) Create(_ context.Context, item *domain.BudgetLineItem) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	f.created = append(f.created, item)
	return fmt.Sprintf("li-%d", f.nextID), nil
}

func (f *fakeStore) UpdateSchedule(_ context.Context, id string, s domain.Schedule) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.schedules[id] = s
	return nil
}

func (f *fakeStore) UpdateFields(_ context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error {
	f.fields = append(f.fields, fieldCall{ID: item.ID, Title: item.Title, Fields: fields})
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func run(w Write) WriteResult {
	return w(context.Background())
}
