// Package cache holds the grouped category listing between reads. Category
// data changes rarely, so the listing is served from cache and invalidated on
// any category or super-category mutation.
package cache

import (
	"context"

	"lifepath/internal/category/models"
)

// Cache stores the grouped category listing for a bounded time.
type Cache interface {
	// GetGrouped returns the cached listing, or (nil, false, nil) on a miss.
	GetGrouped(ctx context.Context) (models.GroupedCategories, bool, error)
	SetGrouped(ctx context.Context, grouped models.GroupedCategories) error
	// Clear drops the cached listing. Called after every mutation.
	Clear(ctx context.Context) error
}
