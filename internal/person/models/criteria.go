package models

import "time"

// MoralFilter is the tri-state person-kind criterion. The zero value imposes
// no constraint, so an unset filter never restricts a search. The wire-level
// encoding (-1 / 0 / 1) is translated at the handler.
type MoralFilter int

const (
	// MoralAny imposes no constraint on the person kind.
	MoralAny MoralFilter = iota
	// MoralPhysicalOnly matches natural persons only.
	MoralPhysicalOnly
	// MoralOnly matches legal/organizational entities only.
	MoralOnly
)

// SearchCriteria is a sparse set of filters. Zero values (empty string, nil
// slice, nil bound, MoralAny) impose no constraint; everything supplied is
// combined with logical AND.
type SearchCriteria struct {
	// Name matches case-insensitively as a substring of first name OR last
	// name OR description.
	Name string

	// Numbers restricts the life path number to this set.
	Numbers []int

	// BirthDays restricts the day-of-month component of the birth date.
	BirthDays []int

	// Moral is the tri-state person-kind filter.
	Moral MoralFilter

	// Inclusive date-range bounds; either side of a range may be nil.
	BirthDateFrom *time.Time
	BirthDateTo   *time.Time
	DeathDateFrom *time.Time
	DeathDateTo   *time.Time

	// CategoryIDs requires membership in at least one listed category
	// (existential, not "all of").
	CategoryIDs []int64
}

// Empty reports whether no filter was supplied, in which case a search
// returns the whole registry.
func (c SearchCriteria) Empty() bool {
	return c.Name == "" &&
		len(c.Numbers) == 0 &&
		len(c.BirthDays) == 0 &&
		c.Moral == MoralAny &&
		c.BirthDateFrom == nil && c.BirthDateTo == nil &&
		c.DeathDateFrom == nil && c.DeathDateTo == nil &&
		len(c.CategoryIDs) == 0
}
