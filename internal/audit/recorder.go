package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store persists audit events. It is append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Recorder captures structured audit events through the store so tests can
// swap sinks easily. A nil Recorder drops events, which lets callers treat the
// trail as optional.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one event. Failures are logged, never propagated: the audit
// trail must not fail the mutation it describes.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := r.store.Append(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "audit append failed",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}

// ListRecent returns the newest events, newest first.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return r.store.ListRecent(ctx, limit)
}
