// Package service implements category and super-category management with a
// read-through cache over the grouped listing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"lifepath/internal/category/cache"
	categorymetrics "lifepath/internal/category/metrics"
	"lifepath/internal/category/models"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/sentinel"
)

// Store is the category persistence contract. Both the Postgres and the
// in-memory implementations satisfy it.
type Store interface {
	ListGrouped(ctx context.Context) (models.GroupedCategories, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
	ListSuperCategories(ctx context.Context) ([]models.SuperCategory, error)
	CreateSuperCategory(ctx context.Context, name string) (*models.SuperCategory, error)
	RenameSuperCategory(ctx context.Context, id int64, name string) error
	DeleteSuperCategory(ctx context.Context, id int64) error
	LinkedSuperCategories(ctx context.Context, categoryID int64) ([]int64, error)
	Link(ctx context.Context, categoryID, superCategoryID int64) error
	Unlink(ctx context.Context, categoryID, superCategoryID int64) error
}

// Service orchestrates category operations. Every mutation clears the cached
// grouped listing, so reads never serve a stale grouping for longer than one
// request after a change.
type Service struct {
	store   Store
	cache   cache.Cache
	logger  *slog.Logger
	metrics *categorymetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithMetrics(m *categorymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, c cache.Cache, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cache:  c,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListGrouped returns categories keyed by super-category name, serving from
// the cache when warm. Cache failures degrade to a store read, never to an
// error for the caller.
func (s *Service) ListGrouped(ctx context.Context) (models.GroupedCategories, error) {
	if cached, ok, err := s.cache.GetGrouped(ctx); err != nil {
		s.logger.WarnContext(ctx, "category cache read failed", "error", err.Error())
	} else if ok {
		s.metrics.IncrementCacheLookup("hit")
		return cached, nil
	} else {
		s.metrics.IncrementCacheLookup("miss")
	}

	grouped, err := s.store.ListGrouped(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}

	if err := s.cache.SetGrouped(ctx, grouped); err != nil {
		s.logger.WarnContext(ctx, "category cache write failed", "error", err.Error())
	}
	return grouped, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return nil, translate(err, "failed to create category")
	}
	s.metrics.IncrementCategoriesCreated()
	s.invalidate(ctx)
	return c, nil
}

func (s *Service) RenameCategory(ctx context.Context, id int64, name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	if err := s.store.RenameCategory(ctx, id, name); err != nil {
		return translate(err, "failed to rename category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return translate(err, "failed to delete category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) ListSuperCategories(ctx context.Context) ([]models.SuperCategory, error) {
	supers, err := s.store.ListSuperCategories(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list super categories")
	}
	return supers, nil
}

func (s *Service) CreateSuperCategory(ctx context.Context, name string) (*models.SuperCategory, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	sc, err := s.store.CreateSuperCategory(ctx, name)
	if err != nil {
		return nil, translate(err, "failed to create super category")
	}
	s.invalidate(ctx)
	return sc, nil
}

func (s *Service) RenameSuperCategory(ctx context.Context, id int64, name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	if err := s.store.RenameSuperCategory(ctx, id, name); err != nil {
		return translate(err, "failed to rename super category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteSuperCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteSuperCategory(ctx, id); err != nil {
		return translate(err, "failed to delete super category")
	}
	s.invalidate(ctx)
	return nil
}

// LinkedSuperCategories returns the super-category ids a category belongs to.
func (s *Service) LinkedSuperCategories(ctx context.Context, categoryID int64) ([]int64, error) {
	ids, err := s.store.LinkedSuperCategories(ctx, categoryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list links")
	}
	return ids, nil
}

// Link associates a category with a super-category. Linking the same pair
// twice is a no-op.
func (s *Service) Link(ctx context.Context, categoryID, superCategoryID int64) error {
	if err := s.store.Link(ctx, categoryID, superCategoryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "unknown category or super category")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Unlink(ctx context.Context, categoryID, superCategoryID int64) error {
	if err := s.store.Unlink(ctx, categoryID, superCategoryID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unlink")
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "category cache clear failed", "error", err.Error())
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return name, nil
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
