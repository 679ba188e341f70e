package timeline

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Editor is the field-level edit popup. Every field write is saved on its
// own; the first write to a draft creates it in the store.
type Editor struct {
	board  *Board
	store  LineItemStore
	id     string
	edited bool
}

func NewEditor(board *Board, store LineItemStore) *Editor {
	return &Editor{board: board, store: store}
}

// Open targets the popup at the item with id.
func (e *Editor) Open(id string) {
	e.id = id
	e.edited = false
}

func (e *Editor) IsOpen() bool { return e.id != "" }

// ItemID returns the edited item's current id, following draft promotion.
func (e *Editor) ItemID() string {
	if e.id == "" {
		return ""
	}
	return e.board.ResolveID(e.id)
}

// Item returns the edited item, or nil when closed or gone.
func (e *Editor) Item() *domain.BudgetLineItem {
	if e.id == "" {
		return nil
	}
	return e.board.Item(e.id)
}

// SetField assigns one field in memory and returns the write that persists
// it. Invalid values are rejected before anything changes. A nil Write with
// a nil error means the change will be flushed by a pending create.
func (e *Editor) SetField(f domain.LineItemField, raw string) (Write, error) {
	item := e.Item()
	if item == nil {
		return nil, fmt.Errorf("line item not found")
	}
	changed, err := item.SetField(f, raw, e.board.now())
	if err != nil {
		return nil, err
	}
	e.edited = true

	if item.IsDraft() {
		if e.board.isPromoting(item.ID) {
			e.board.markDirty(item.ID)
			return nil, nil
		}
		e.board.markPromoting(item.ID)
		return createWrite(e.store, item.Clone()), nil
	}

	snapshot := item.Clone()
	store := e.store
	return func(ctx context.Context) WriteResult {
		return WriteResult{Op: OpFields, ItemID: snapshot.ID, Err: store.UpdateFields(ctx, snapshot, changed...)}
	}, nil
}

// Close dismisses the popup. A draft that was never edited is discarded.
func (e *Editor) Close() {
	if item := e.Item(); item != nil && item.IsDraft() && !e.edited && !e.board.isPromoting(item.ID) {
		e.board.Remove(item.ID)
	}
	e.id = ""
	e.edited = false
}

// Delete removes the edited item and closes the popup. A draft whose
// create is still in flight is cleaned up when that create resolves.
func (e *Editor) Delete() Write {
	item := e.Item()
	e.id = ""
	e.edited = false
	if item == nil {
		return nil
	}
	e.board.Remove(item.ID)
	if item.IsDraft() {
		return nil
	}
	id, store := item.ID, e.store
	return func(ctx context.Context) WriteResult {
		return WriteResult{Op: OpDelete, ItemID: id, Err: store.Delete(ctx, id)}
	}
}

func createWrite(store LineItemStore, snapshot *domain.BudgetLineItem) Write {
	return func(ctx context.Context) WriteResult {
		id, err := store.Create(ctx, snapshot)
		return WriteResult{Op: OpCreate, ItemID: snapshot.ID, PersistedID: id, Err: err}
	}
}
