package timeline

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// LineItemStore persists line items on behalf of the timeline.
type LineItemStore interface {
	Create(ctx context.Context, item *domain.BudgetLineItem) (string, error)
	UpdateSchedule(ctx context.Context, id string, s domain.Schedule) error
	UpdateFields(ctx context.Context, item *domain.BudgetLineItem, fields ...domain.LineItemField) error
	Delete(ctx context.Context, id string) error
}

// WriteOp identifies the kind of deferred persistence call.
type WriteOp int

const (
	OpSchedule WriteOp = iota
	OpFields
	OpCreate
	OpDelete
)

// Write is a persistence call produced on the event loop and run off it.
// Its result must be handed back to Board.Resolve on the loop.
type Write func(ctx context.Context) WriteResult

// WriteResult reports the outcome of a Write. PersistedID is set by OpCreate.
type WriteResult struct {
	Op          WriteOp
	ItemID      string
	PersistedID string
	Err         error
}

// Board is the in-memory line-item and task state of one planner session.
// It is owned by the UI loop and never locked.
type Board struct {
	study *domain.Study
	items []*domain.BudgetLineItem
	tasks []*domain.RecruitmentTask

	promoting map[string]bool
	dirty     map[string]bool
	renamed   map[string]string

	now func() time.Time
}

// NewBoard creates a board over the given study state.
func NewBoard(study *domain.Study, items []*domain.BudgetLineItem, tasks []*domain.RecruitmentTask) *Board {
	return &Board{
		study:     study,
		items:     items,
		tasks:     tasks,
		promoting: make(map[string]bool),
		dirty:     make(map[string]bool),
		renamed:   make(map[string]string),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the board's time source.
func (b *Board) SetClock(now func() time.Time) { b.now = now }

func (b *Board) Study() *domain.Study                 { return b.study }
func (b *Board) Items() []*domain.BudgetLineItem      { return b.items }
func (b *Board) Tasks() []*domain.RecruitmentTask     { return b.tasks }
func (b *Board) SetTasks(t []*domain.RecruitmentTask) { b.tasks = t }

// ReplaceItems swaps in a fresh item list, keeping local drafts.
func (b *Board) ReplaceItems(items []*domain.BudgetLineItem) {
	for _, it := range b.items {
		if it.IsDraft() {
			items = append(items, it)
		}
	}
	b.items = items
}

// Item returns the item with id, following draft renames.
func (b *Board) Item(id string) *domain.BudgetLineItem {
	id = b.ResolveID(id)
	for _, it := range b.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// ResolveID maps a draft id to its persisted id once promoted.
func (b *Board) ResolveID(id string) string {
	if next, ok := b.renamed[id]; ok {
		return next
	}
	return id
}

// Add appends an item.
func (b *Board) Add(item *domain.BudgetLineItem) {
	b.items = append(b.items, item)
}

// Remove drops the item with id and its task links. Returns false if it
// was not present.
func (b *Board) Remove(id string) bool {
	id = b.ResolveID(id)
	for i, it := range b.items {
		if it.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			delete(b.dirty, id)
			for _, t := range b.tasks {
				t.Unlink(id)
			}
			return true
		}
	}
	return false
}

// Rekey replaces a draft id with its persisted id on the item and on every
// task link that references it.
func (b *Board) Rekey(oldID, newID string) bool {
	it := b.Item(oldID)
	if it == nil {
		return false
	}
	it.ID = newID
	for _, t := range b.tasks {
		t.ReplaceLink(oldID, newID)
	}
	b.renamed[oldID] = newID
	return true
}

// isPromoting reports whether a create for the draft is in flight.
func (b *Board) isPromoting(id string) bool { return b.promoting[id] }

// markPromoting records that a create for the draft id is in flight.
func (b *Board) markPromoting(id string) { b.promoting[id] = true }

// markDirty records that id changed locally while its create was in flight.
func (b *Board) markDirty(id string) { b.dirty[id] = true }

// Resolve applies a finished Write to the board. A successful create
// promotes the draft; if the draft changed meanwhile, or was removed, the
// returned Write carries the follow-up call. Failures leave memory as is.
func (b *Board) Resolve(store LineItemStore, r WriteResult) Write {
	if r.Op != OpCreate {
		return nil
	}
	delete(b.promoting, r.ItemID)
	if r.Err != nil {
		delete(b.dirty, r.ItemID)
		return nil
	}

	if !b.Rekey(r.ItemID, r.PersistedID) {
		orphan := r.PersistedID
		return func(ctx context.Context) WriteResult {
			return WriteResult{Op: OpDelete, ItemID: orphan, Err: store.Delete(ctx, orphan)}
		}
	}
	if !b.dirty[r.ItemID] {
		return nil
	}
	delete(b.dirty, r.ItemID)
	return fullUpdate(store, b.Item(r.PersistedID).Clone())
}

// fullUpdate rewrites every editable field and the schedule of snapshot.
func fullUpdate(store LineItemStore, snapshot *domain.BudgetLineItem) Write {
	return func(ctx context.Context) WriteResult {
		if err := store.UpdateFields(ctx, snapshot, domain.EditableFields...); err != nil {
			return WriteResult{Op: OpFields, ItemID: snapshot.ID, Err: err}
		}
		err := store.UpdateSchedule(ctx, snapshot.ID, snapshot.Schedule)
		return WriteResult{Op: OpSchedule, ItemID: snapshot.ID, Err: err}
	}
}
