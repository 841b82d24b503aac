package models

import (
	"time"
)

// Person is a registry entry: a natural person or a legal ("moral") entity,
// annotated with the life path number derived from its birth date.
//
// Invariants:
//   - At least one of FirstName, LastName, Description is non-empty
//   - DeathDate, when set, is not before BirthDate
//   - Number is derived from BirthDate by the numerology engine; it may be
//     nil until backfilled by a recompute run
type Person struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Description   string     `json:"description"`
	IsMoralPerson bool       `json:"is_moral_person"`
	BirthDate     time.Time  `json:"birth_date"`
	DeathDate     *time.Time `json:"death_date,omitempty"`
	Number        *int       `json:"number,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PersonWithCategories decorates a search hit with the display names of the
// categories it belongs to. The underlying join can produce one row per
// category; results are collapsed back to one entry per person.
type PersonWithCategories struct {
	Person
	CategoryNames []string `json:"category_names"`
}

// NewPersonInput carries the fields of a creation request after date parsing.
type NewPersonInput struct {
	FirstName     string
	LastName      string
	Description   string
	IsMoralPerson bool
	BirthDate     time.Time
	DeathDate     *time.Time
	CategoryIDs   []int64
	Confirm       bool
}

// Validate collects every business-rule violation rather than failing on the
// first, so the caller can report them all at once.
func (in NewPersonInput) Validate() []string {
	var violations []string
	if in.FirstName == "" && in.LastName == "" && in.Description == "" {
		violations = append(violations, "at least one of first name, last name or description is required")
	}
	if in.BirthDate.IsZero() {
		violations = append(violations, "birth date is required")
	}
	if in.DeathDate != nil && in.DeathDate.Before(in.BirthDate) {
		violations = append(violations, "death date cannot precede birth date")
	}
	return violations
}
