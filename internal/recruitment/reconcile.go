// Package recruitment derives the per-line-item recruitment aggregates from
// the recruitment tasks that reference each item.
package recruitment

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// RecruitedCounter returns the authoritative recruited count of a task:
// the number of its applications in a recruited state.
type RecruitedCounter interface {
	CountRecruited(ctx context.Context, taskID string) (int, error)
}

// Update is the aggregate to store on one line item. A nil Aggregate clears
// the item's recruitment fields.
type Update struct {
	ItemID    string
	Aggregate *domain.RecruitmentAggregate
}

// Stats summarises one reconciliation pass.
type Stats struct {
	Tasks         int
	LinkedTasks   int
	Items         int
	WithAggregate int
	Cleared       int
}

// CountRecruited queries the recruited count of every task that links at
// least one item. Queries run one after another; the first failure aborts.
func CountRecruited(ctx context.Context, counter RecruitedCounter, tasks []*domain.RecruitmentTask) (map[string]int, error) {
	counts := make(map[string]int)
	for _, t := range tasks {
		if len(t.LinkedItems) == 0 {
			continue
		}
		n, err := counter.CountRecruited(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("counting recruited for task %s: %w", t.ID, err)
		}
		counts[t.ID] = n
	}
	return counts, nil
}

type sums struct {
	required  int
	recruited int
}

// Compute returns one Update per item, in item order. An item referenced by
// any task gets the summed required and recruited headcounts of those tasks;
// an unreferenced item gets a nil aggregate. recruited holds each task's
// count as returned by CountRecruited; missing tasks count as 0.
func Compute(tasks []*domain.RecruitmentTask, recruited map[string]int, items []*domain.BudgetLineItem) []Update {
	byItem := make(map[string]*sums)
	for _, t := range tasks {
		seen := make(map[string]bool, len(t.LinkedItems))
		for _, itemID := range t.LinkedItems {
			if seen[itemID] {
				continue
			}
			seen[itemID] = true
			s, ok := byItem[itemID]
			if !ok {
				s = &sums{}
				byItem[itemID] = s
			}
			s.required += t.RequiredOrZero()
			s.recruited += recruited[t.ID]
		}
	}

	updates := make([]Update, 0, len(items))
	for _, it := range items {
		s, ok := byItem[it.ID]
		if !ok {
			updates = append(updates, Update{ItemID: it.ID})
			continue
		}
		updates = append(updates, Update{
			ItemID: it.ID,
			Aggregate: &domain.RecruitmentAggregate{
				StudentsRequired:  s.required,
				StudentsRecruited: s.recruited,
				Status:            domain.DeriveRecruitmentStatus(s.required, s.recruited),
			},
		})
	}
	return updates
}

// Apply writes updates onto the matching in-memory items and reports what
// changed.
func Apply(items []*domain.BudgetLineItem, updates []Update) Stats {
	byID := make(map[string]*domain.BudgetLineItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	st := Stats{Items: len(updates)}
	for _, u := range updates {
		it, ok := byID[u.ItemID]
		if !ok {
			continue
		}
		if u.Aggregate == nil {
			it.Recruitment = nil
			st.Cleared++
			continue
		}
		agg := *u.Aggregate
		it.Recruitment = &agg
		st.WithAggregate++
	}
	return st
}

// Reconcile counts, computes and applies in one call. The task list must be
// the current one: aggregates are rebuilt from it, not patched.
func Reconcile(ctx context.Context, counter RecruitedCounter, tasks []*domain.RecruitmentTask, items []*domain.BudgetLineItem) ([]Update, Stats, error) {
	counts, err := CountRecruited(ctx, counter, tasks)
	if err != nil {
		return nil, Stats{}, err
	}
	updates := Compute(tasks, counts, items)
	st := Apply(items, updates)
	st.Tasks = len(tasks)
	st.LinkedTasks = len(counts)
	return updates, st, nil
}
