//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lifepath/internal/category/models"
	"lifepath/internal/category/store"
	"lifepath/internal/storage"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/testutil/containers"
)

type CategoryPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestCategoryPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CategoryPostgresSuite))
}

func (s *CategoryPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), storage.Migrate)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *CategoryPostgresSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"categories", "super_categories")
	s.Require().NoError(err)
}

func (s *CategoryPostgresSuite) TestGroupedListing() {
	ctx := context.Background()

	painters, err := s.store.CreateCategory(ctx, "Painters")
	s.Require().NoError(err)
	_, err = s.store.CreateCategory(ctx, "Poets")
	s.Require().NoError(err)
	arts, err := s.store.CreateSuperCategory(ctx, "Arts")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Link(ctx, painters.ID, arts.ID))

	grouped, err := s.store.ListGrouped(ctx)
	s.Require().NoError(err)
	s.Require().Len(grouped["Arts"], 1)
	s.Equal("Painters", grouped["Arts"][0].Name)
	s.Require().Len(grouped[models.UngroupedKey], 1)
	s.Equal("Poets", grouped[models.UngroupedKey][0].Name)
}

func (s *CategoryPostgresSuite) TestUniqueNamesEnforced() {
	ctx := context.Background()

	_, err := s.store.CreateCategory(ctx, "Painters")
	s.Require().NoError(err)
	_, err = s.store.CreateCategory(ctx, "Painters")
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *CategoryPostgresSuite) TestDeleteCascades() {
	ctx := context.Background()

	painters, err := s.store.CreateCategory(ctx, "Painters")
	s.Require().NoError(err)
	arts, err := s.store.CreateSuperCategory(ctx, "Arts")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Link(ctx, painters.ID, arts.ID))

	s.Require().NoError(s.store.DeleteSuperCategory(ctx, arts.ID))

	linked, err := s.store.LinkedSuperCategories(ctx, painters.ID)
	s.Require().NoError(err)
	s.Empty(linked)
}

func (s *CategoryPostgresSuite) TestLinkIdempotent() {
	ctx := context.Background()

	painters, err := s.store.CreateCategory(ctx, "Painters")
	s.Require().NoError(err)
	arts, err := s.store.CreateSuperCategory(ctx, "Arts")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Link(ctx, painters.ID, arts.ID))
	s.Require().NoError(s.store.Link(ctx, painters.ID, arts.ID))

	linked, err := s.store.LinkedSuperCategories(ctx, painters.ID)
	s.Require().NoError(err)
	s.Equal([]int64{arts.ID}, linked)

	s.Require().ErrorIs(s.store.Link(ctx, painters.ID, 424242), sentinel.ErrNotFound)
}

func (s *CategoryPostgresSuite) TestRenameMissing() {
	ctx := context.Background()
	s.Require().ErrorIs(s.store.RenameCategory(ctx, 424242, "x"), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.DeleteSuperCategory(ctx, 424242), sentinel.ErrNotFound)
}
