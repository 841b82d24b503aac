package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lifepath/internal/person/models"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/platform/tx"
)

// Postgres persists persons and their category memberships.
type Postgres struct {
	db     *sql.DB
	runner tx.Runner
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, runner: tx.NewSQLRunner(db)}
}

// executor returns the context transaction when one is active, so statements
// issued inside CreateWithCategories share a single transaction.
func (s *Postgres) executor(ctx context.Context) interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

// Search runs the composed criteria predicate and collapses the category join
// back to one row per person.
func (s *Postgres) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.PersonWithCategories, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	defer rows.Close()

	results := []models.PersonWithCategories{}
	for rows.Next() {
		var (
			p         models.Person
			deathDate sql.NullTime
			number    sql.NullInt64
			names     pq.StringArray
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Description, &p.IsMoralPerson,
			&p.BirthDate, &deathDate, &number, &p.CreatedAt, &names); err != nil {
			return nil, fmt.Errorf("scan person row: %w", err)
		}
		if deathDate.Valid {
			d := deathDate.Time
			p.DeathDate = &d
		}
		if number.Valid {
			n := int(number.Int64)
			p.Number = &n
		}
		results = append(results, models.PersonWithCategories{Person: p, CategoryNames: names})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person rows: %w", err)
	}
	return results, nil
}

// FindByBirthDate returns every person with exactly this birth date, used by
// the advisory duplicate check during creation.
func (s *Postgres) FindByBirthDate(ctx context.Context, birthDate time.Time) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, description, is_moral_person, birth_date, death_date, number, created_at
		 FROM persons WHERE birth_date = $1 ORDER BY id`, birthDate)
	if err != nil {
		return nil, fmt.Errorf("find by birth date: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate birth date rows: %w", err)
	}
	return persons, nil
}

// CreateWithCategories inserts the person and its category links as one
// transaction. A failing link insert rolls back the person insert.
func (s *Postgres) CreateWithCategories(ctx context.Context, p *models.Person, categoryIDs []int64) error {
	return s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		exec := s.executor(txCtx)

		err := exec.QueryRowContext(txCtx,
			`INSERT INTO persons (first_name, last_name, description, is_moral_person, birth_date, death_date, number, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			p.FirstName, p.LastName, p.Description, p.IsMoralPerson,
			p.BirthDate, nullTime(p.DeathDate), nullInt(p.Number), p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert person: %w", err)
		}

		for _, categoryID := range categoryIDs {
			if _, err := exec.ExecContext(txCtx,
				`INSERT INTO person_categories (person_id, category_id) VALUES ($1, $2)`,
				p.ID, categoryID); err != nil {
				var pqErr *pq.Error
				if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
					return fmt.Errorf("link category %d: %w", categoryID, sentinel.ErrNotFound)
				}
				return fmt.Errorf("insert category link: %w", err)
			}
		}
		return nil
	})
}

// ListForRecompute returns id and birth date for every person, or only for
// persons whose number has not been computed yet.
func (s *Postgres) ListForRecompute(ctx context.Context, onlyMissing bool) ([]models.Person, error) {
	query := `SELECT id, birth_date FROM persons`
	if onlyMissing {
		query += ` WHERE number IS NULL`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list for recompute: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.BirthDate); err != nil {
			return nil, fmt.Errorf("scan recompute row: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recompute rows: %w", err)
	}
	return persons, nil
}

// UpdateNumber persists a recomputed life path number for one person.
func (s *Postgres) UpdateNumber(ctx context.Context, personID int64, number int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE persons SET number = $1 WHERE id = $2`, number, personID)
	if err != nil {
		return fmt.Errorf("update number: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update number rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person %d: %w", personID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (models.Person, error) {
	var (
		p         models.Person
		deathDate sql.NullTime
		number    sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Description, &p.IsMoralPerson,
		&p.BirthDate, &deathDate, &number, &p.CreatedAt); err != nil {
		return models.Person{}, fmt.Errorf("scan person: %w", err)
	}
	if deathDate.Valid {
		d := deathDate.Time
		p.DeathDate = &d
	}
	if number.Valid {
		n := int(number.Int64)
		p.Number = &n
	}
	return p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
