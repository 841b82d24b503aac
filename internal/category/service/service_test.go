package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifepath/internal/category/cache"
	"lifepath/internal/category/models"
	"lifepath/internal/category/store"
	dErrors "lifepath/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *store.InMemory, *cache.Memory) {
	t.Helper()
	st := store.NewInMemory()
	c := cache.NewMemory(time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, c, logger), st, c
}

func TestListGroupedPopulatesCache(t *testing.T) {
	svc, st, c := newTestService(t)
	ctx := context.Background()

	_, err := st.CreateCategory(ctx, "Painters")
	require.NoError(t, err)

	grouped, err := svc.ListGrouped(ctx)
	require.NoError(t, err)
	require.Len(t, grouped[models.UngroupedKey], 1)

	cached, ok, err := c.GetGrouped(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, grouped, cached)
}

func TestListGroupedServesFromCache(t *testing.T) {
	svc, st, c := newTestService(t)
	ctx := context.Background()

	stale := models.GroupedCategories{"Arts": {{ID: 99, Name: "Cached"}}}
	require.NoError(t, c.SetGrouped(ctx, stale))

	// The store has different content; a warm cache wins until invalidated.
	_, err := st.CreateCategory(ctx, "Painters")
	require.NoError(t, err)

	grouped, err := svc.ListGrouped(ctx)
	require.NoError(t, err)
	assert.Equal(t, stale, grouped)
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	warm := func() {
		_, err := svc.ListGrouped(ctx)
		require.NoError(t, err)
		_, ok, err := c.GetGrouped(ctx)
		require.NoError(t, err)
		require.True(t, ok)
	}
	cold := func() {
		t.Helper()
		_, ok, err := c.GetGrouped(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	}

	warm()
	created, err := svc.CreateCategory(ctx, "Painters")
	require.NoError(t, err)
	cold()

	warm()
	require.NoError(t, svc.RenameCategory(ctx, created.ID, "Poets"))
	cold()

	warm()
	sc, err := svc.CreateSuperCategory(ctx, "Arts")
	require.NoError(t, err)
	cold()

	warm()
	require.NoError(t, svc.Link(ctx, created.ID, sc.ID))
	cold()

	warm()
	require.NoError(t, svc.Unlink(ctx, created.ID, sc.ID))
	cold()

	warm()
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
	cold()
}

func TestNameValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = svc.CreateSuperCategory(ctx, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	// Names are trimmed before storage.
	created, err := svc.CreateCategory(ctx, "  Painters  ")
	require.NoError(t, err)
	assert.Equal(t, "Painters", created.Name)
}

func TestDuplicateNameConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Painters")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Painters")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestMissingRowsAreNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.RenameCategory(ctx, 404, "x")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.DeleteSuperCategory(ctx, 404)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLinkUnknownPairIsBadRequest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Link(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
