package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderStampsAndAppends(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	rec := NewRecorder(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	personID := int64(7)
	rec.Record(ctx, Event{Action: ActionPersonCreated, PersonID: &personID})

	events, err := rec.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionPersonCreated, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero())
	require.NotNil(t, events[0].PersonID)
	assert.Equal(t, personID, *events[0].PersonID)
}

func TestRecorderKeepsExplicitTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	rec := NewRecorder(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec.Record(ctx, Event{Action: ActionNumbersRecomputed, Timestamp: at})

	events, err := rec.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(at))
}

func TestNilRecorderDropsEvents(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), Event{Action: ActionPersonCreated})
}

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error { return errors.New("sink down") }
func (failingStore) ListRecent(context.Context, int) ([]Event, error) {
	return nil, errors.New("sink down")
}

func TestRecorderSwallowsAppendFailures(t *testing.T) {
	rec := NewRecorder(failingStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec.Record(context.Background(), Event{Action: ActionPersonCreated})
}

func TestListRecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, Event{Action: ActionPersonCreated}))
	}

	events, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	// Newest first.
	assert.Greater(t, events[0].ID, events[1].ID)
	assert.Greater(t, events[1].ID, events[2].ID)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
