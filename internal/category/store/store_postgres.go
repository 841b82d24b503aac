package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"lifepath/internal/category/models"
	"lifepath/pkg/platform/sentinel"
)

// Postgres persists categories, super-categories, and their links.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// ListGrouped returns every category keyed by its super-category name, with
// uncategorized entries under models.UngroupedKey.
func (s *Postgres) ListGrouped(ctx context.Context) (models.GroupedCategories, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, sc.name
		FROM categories c
		LEFT JOIN super_category_categories scc ON scc.category_id = c.id
		LEFT JOIN super_categories sc ON sc.id = scc.super_category_id
		ORDER BY sc.name, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list grouped categories: %w", err)
	}
	defer rows.Close()

	grouped := models.GroupedCategories{}
	for rows.Next() {
		var (
			c         models.Category
			superName sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &superName); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		key := models.UngroupedKey
		if superName.Valid {
			key = superName.String
		}
		grouped[key] = append(grouped[key], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return grouped, nil
}

func (s *Postgres) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c := models.Category{Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category %q: %w", name, sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

func (s *Postgres) RenameCategory(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category %q: %w", name, sentinel.ErrConflict)
		}
		return fmt.Errorf("rename category: %w", err)
	}
	return requireAffected(res, id)
}

// DeleteCategory removes the category; person memberships and super-category
// links go with it via ON DELETE CASCADE.
func (s *Postgres) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, id)
}

func (s *Postgres) ListSuperCategories(ctx context.Context) ([]models.SuperCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM super_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list super categories: %w", err)
	}
	defer rows.Close()

	supers := []models.SuperCategory{}
	for rows.Next() {
		var sc models.SuperCategory
		if err := rows.Scan(&sc.ID, &sc.Name); err != nil {
			return nil, fmt.Errorf("scan super category row: %w", err)
		}
		supers = append(supers, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate super category rows: %w", err)
	}
	return supers, nil
}

func (s *Postgres) CreateSuperCategory(ctx context.Context, name string) (*models.SuperCategory, error) {
	sc := models.SuperCategory{Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO super_categories (name) VALUES ($1) RETURNING id`, name).Scan(&sc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("super category %q: %w", name, sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("create super category: %w", err)
	}
	return &sc, nil
}

func (s *Postgres) RenameSuperCategory(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE super_categories SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("super category %q: %w", name, sentinel.ErrConflict)
		}
		return fmt.Errorf("rename super category: %w", err)
	}
	return requireAffected(res, id)
}

func (s *Postgres) DeleteSuperCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM super_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete super category: %w", err)
	}
	return requireAffected(res, id)
}

// LinkedSuperCategories lists the super-category ids a category sits under.
func (s *Postgres) LinkedSuperCategories(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT super_category_id FROM super_category_categories WHERE category_id = $1 ORDER BY super_category_id`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list linked super categories: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate link rows: %w", err)
	}
	return ids, nil
}

// Link associates a category with a super-category. Re-linking an existing
// pair is a no-op.
func (s *Postgres) Link(ctx context.Context, categoryID, superCategoryID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO super_category_categories (category_id, super_category_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`, categoryID, superCategoryID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("link %d->%d: %w", categoryID, superCategoryID, sentinel.ErrNotFound)
		}
		return fmt.Errorf("link category: %w", err)
	}
	return nil
}

func (s *Postgres) Unlink(ctx context.Context, categoryID, superCategoryID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM super_category_categories WHERE category_id = $1 AND super_category_id = $2`,
		categoryID, superCategoryID)
	if err != nil {
		return fmt.Errorf("unlink category: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

func requireAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("id %d: %w", id, sentinel.ErrNotFound)
	}
	return nil
}
