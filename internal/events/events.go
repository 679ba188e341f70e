// Package events publishes line-item notifications to an AMQP exchange so
// other systems can follow recruitment progress.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Reconciled is published after a reconciliation batch commits.
type Reconciled struct {
	StudyID      string    `json:"study_id"`
	ItemIDs      []string  `json:"item_ids"`
	ReconciledAt time.Time `json:"reconciled_at"`
}

func NewReconciled(studyID string, itemIDs []string, at time.Time) *Reconciled {
	return &Reconciled{StudyID: studyID, ItemIDs: itemIDs, ReconciledAt: at.UTC()}
}

func (m *Reconciled) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReconciledFromJSON(data []byte) (*Reconciled, error) {
	var msg Reconciled
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Publisher delivers events. Implementations must be safe to call from
// any goroutine.
type Publisher interface {
	PublishReconciled(ctx context.Context, ev *Reconciled) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishReconciled(context.Context, *Reconciled) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }
