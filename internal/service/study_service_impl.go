package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/timeline"
	"github.com/google/uuid"
)

type studyService struct {
	studies  repository.StudyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStudyService(studies repository.StudyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StudyService {
	return &studyService{studies: studies, uow: uow, observer: combineObservers(observers)}
}

func (s *studyService) Create(ctx context.Context, st *domain.Study) error {
	if st.Name == "" {
		return errors.New("study name is required")
	}
	if err := validateAnchor(st.StartDate, st.EndDate); err != nil {
		return err
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	return s.studies.Create(ctx, st)
}

func (s *studyService) GetByID(ctx context.Context, id string) (*domain.Study, error) {
	return s.studies.GetByID(ctx, id)
}

func (s *studyService) List(ctx context.Context) ([]*domain.Study, error) {
	return s.studies.List(ctx)
}

func (s *studyService) UpdateDates(ctx context.Context, id string, start, end *time.Time) (study *domain.Study, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"study": id}
	defer func() { observe(ctx, s.observer, "update-study-dates", startedAt, fields, err) }()

	if err = validateAnchor(start, end); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStudies := repository.NewSQLiteStudyRepo(tx)
		txItems := repository.NewSQLiteLineItemRepo(tx)

		st, err := txStudies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldAnchor := st.StartDate
		wasAbsolute := st.Mode() == domain.ModeAbsolute

		now := time.Now().UTC()
		st.StartDate, st.EndDate = truncatePtr(start), truncatePtr(end)
		st.UpdatedAt = now
		if err := txStudies.Update(ctx, st); err != nil {
			return err
		}
		fields["mode"] = st.Mode().String()

		converted := 0
		if wasAbsolute && st.Mode() == domain.ModeRelative {
			items, err := txItems.ListByStudy(ctx, id)
			if err != nil {
				return err
			}
			for _, item := range items {
				if !item.Schedule.IsDated() {
					continue
				}
				weeks := domain.WeekSchedule(
					timeline.BucketWeek(*item.Schedule.StartDate, *oldAnchor),
					timeline.BucketWeek(*item.Schedule.EndDate, *oldAnchor),
				)
				if err := txItems.UpdateSchedule(ctx, item.ID, weeks, now); err != nil {
					return err
				}
				converted++
			}
		}
		fields["items_converted"] = converted
		study = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return study, nil
}

func (s *studyService) Delete(ctx context.Context, id string) error {
	return s.studies.Delete(ctx, id)
}

// validateAnchor accepts no anchor or a complete one with end not before start.
func validateAnchor(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return errors.New("study anchor needs both a start and an end date")
	}
	if start != nil && domain.TruncateDay(*end).Before(domain.TruncateDay(*start)) {
		return errors.New("study end date is before its start date")
	}
	return nil
}

func truncatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.TruncateDay(*t)
	return &d
}
