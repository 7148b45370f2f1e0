package notify

import (
	"context"
	"time"
)

// Record is the persisted trace of a dismissed notification.
type Record struct {
	ID          int64
	Owner       string
	Type        Type
	Title       string
	Content     string
	Reason      DismissReason
	CreatedAt   time.Time
	DismissedAt time.Time
}

// RecordOf captures the current state of a dismissed notification. The second
// return value is false if n has not been dismissed yet.
func RecordOf(n *Active) (Record, bool) {
	reason, ok := n.DismissReason()
	if !ok {
		return Record{}, false
	}

	base := n.Notification()
	return Record{
		ID:          n.ID(),
		Owner:       base.Owner,
		Type:        base.Type,
		Title:       base.Title,
		Content:     base.Content,
		Reason:      reason,
		CreatedAt:   n.CreatedAt(),
		DismissedAt: n.DismissedAt(),
	}, true
}

// Store persists dismissal history to durable storage.
type Store interface {
	Save(ctx context.Context, r Record) error
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
