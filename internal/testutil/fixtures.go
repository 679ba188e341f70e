package testutil

import (
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Study options
type StudyOption func(*domain.Study)

// WithAnchor puts the study in absolute mode.
func WithAnchor(start, end time.Time) StudyOption {
	return func(s *domain.Study) {
		s.StartDate = &start
		s.EndDate = &end
	}
}

func WithCompany(c string) StudyOption {
	return func(s *domain.Study) {
		s.Company = c
	}
}

func NewTestStudy(name string, opts ...StudyOption) *domain.Study {
	now := time.Now().UTC()
	s := &domain.Study{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LineItem options
type LineItemOption func(*domain.BudgetLineItem)

func WithWeeks(start, end int) LineItemOption {
	return func(i *domain.BudgetLineItem) {
		i.Schedule = domain.WeekSchedule(start, end)
	}
}

func WithDates(start, end time.Time) LineItemOption {
	return func(i *domain.BudgetLineItem) {
		i.Schedule = domain.DateSchedule(start, end)
	}
}

func WithAmount(a string) LineItemOption {
	return func(i *domain.BudgetLineItem) {
		i.Amount = decimal.RequireFromString(a)
	}
}

func WithAggregate(required, recruited int) LineItemOption {
	return func(i *domain.BudgetLineItem) {
		i.Recruitment = &domain.RecruitmentAggregate{
			StudentsRequired:  required,
			StudentsRecruited: recruited,
			Status:            domain.DeriveRecruitmentStatus(required, recruited),
		}
	}
}

func WithUnitPricing(units, rate string) LineItemOption {
	return func(i *domain.BudgetLineItem) {
		u := decimal.RequireFromString(units)
		r := decimal.RequireFromString(rate)
		i.Units, i.UnitRate = &u, &r
		i.RecomputeAmount()
	}
}

func NewTestLineItem(studyID, title string, opts ...LineItemOption) *domain.BudgetLineItem {
	now := time.Now().UTC()
	i := &domain.BudgetLineItem{
		ID:        uuid.New().String(),
		StudyID:   studyID,
		Title:     title,
		Amount:    decimal.NewFromInt(100),
		Color:     domain.DefaultColor,
		Schedule:  domain.WeekSchedule(1, 2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Task options
type TaskOption func(*domain.RecruitmentTask)

func WithLinkedItems(ids ...string) TaskOption {
	return func(t *domain.RecruitmentTask) {
		t.LinkedItems = ids
	}
}

func WithStudentsRequired(n int) TaskOption {
	return func(t *domain.RecruitmentTask) {
		t.StudentsRequired = &n
	}
}

func WithLinkedRecruitment() TaskOption {
	return func(t *domain.RecruitmentTask) {
		t.LinkedRecruitment = true
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.RecruitmentTask) {
		t.Status = s
	}
}

func NewTestTask(studyID, title string, opts ...TaskOption) *domain.RecruitmentTask {
	now := time.Now().UTC()
	t := &domain.RecruitmentTask{
		ID:        uuid.New().String(),
		StudyID:   studyID,
		Title:     title,
		Status:    domain.TaskTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Application options
type ApplicationOption func(*domain.ApplicationRecord)

func WithApplicationStatus(s domain.ApplicationStatus) ApplicationOption {
	return func(a *domain.ApplicationRecord) {
		a.Status = s
	}
}

func WithEmail(e string) ApplicationOption {
	return func(a *domain.ApplicationRecord) {
		a.ApplicantEmail = e
	}
}

func NewTestApplication(taskID, name string, opts ...ApplicationOption) *domain.ApplicationRecord {
	now := time.Now().UTC()
	a := &domain.ApplicationRecord{
		ID:            uuid.New().String(),
		TaskID:        taskID,
		ApplicantName: name,
		Status:        domain.ApplicationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
