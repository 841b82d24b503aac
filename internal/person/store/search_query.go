package store

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"lifepath/internal/person/models"
)

// predicateBuilder accumulates typed WHERE clauses with positional bind
// parameters. Values are never interpolated into the SQL text.
type predicateBuilder struct {
	conds []string
	args  []any
}

// bind registers a parameter value and returns its positional placeholder.
func (b *predicateBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *predicateBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *predicateBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

const searchSelect = `SELECT p.id, p.first_name, p.last_name, p.description, p.is_moral_person,
       p.birth_date, p.death_date, p.number, p.created_at,
       COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.name IS NOT NULL), '{}') AS category_names
FROM persons p
LEFT JOIN person_categories pc ON pc.person_id = p.id
LEFT JOIN categories c ON c.id = pc.category_id`

const searchSuffix = ` GROUP BY p.id ORDER BY p.last_name, p.first_name, p.id`

// buildSearchQuery translates sparse criteria into one SQL statement. Every
// supplied option contributes one AND-ed predicate; omitted options add
// nothing. The category filter uses an EXISTS subquery so it restricts which
// persons match without truncating the aggregated category-name list.
func buildSearchQuery(c models.SearchCriteria) (string, []any) {
	var b predicateBuilder

	if c.Name != "" {
		pattern := b.bind("%" + strings.ToLower(c.Name) + "%")
		b.where("(LOWER(p.first_name) LIKE " + pattern +
			" OR LOWER(p.last_name) LIKE " + pattern +
			" OR LOWER(p.description) LIKE " + pattern + ")")
	}
	if len(c.Numbers) > 0 {
		b.where("p.number = ANY(" + b.bind(pq.Array(c.Numbers)) + ")")
	}
	if len(c.BirthDays) > 0 {
		b.where("EXTRACT(DAY FROM p.birth_date) = ANY(" + b.bind(pq.Array(c.BirthDays)) + ")")
	}
	if c.Moral != models.MoralAny {
		b.where("p.is_moral_person = " + b.bind(c.Moral == models.MoralOnly))
	}
	if c.BirthDateFrom != nil {
		b.where("p.birth_date >= " + b.bind(*c.BirthDateFrom))
	}
	if c.BirthDateTo != nil {
		b.where("p.birth_date <= " + b.bind(*c.BirthDateTo))
	}
	if c.DeathDateFrom != nil {
		b.where("p.death_date >= " + b.bind(*c.DeathDateFrom))
	}
	if c.DeathDateTo != nil {
		b.where("p.death_date <= " + b.bind(*c.DeathDateTo))
	}
	if len(c.CategoryIDs) > 0 {
		b.where("EXISTS (SELECT 1 FROM person_categories m WHERE m.person_id = p.id AND m.category_id = ANY(" +
			b.bind(pq.Array(c.CategoryIDs)) + "))")
	}

	return searchSelect + b.whereClause() + searchSuffix, b.args
}
