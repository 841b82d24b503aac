package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPersonInputValidate(t *testing.T) {
	birth := time.Date(1990, 3, 7, 0, 0, 0, 0, time.UTC)
	earlier := birth.AddDate(-1, 0, 0)

	t.Run("valid input has no violations", func(t *testing.T) {
		in := NewPersonInput{FirstName: "Ada", LastName: "Lovelace", BirthDate: birth}
		assert.Empty(t, in.Validate())
	})

	t.Run("description alone satisfies the identity rule", func(t *testing.T) {
		in := NewPersonInput{Description: "anonymous donor", BirthDate: birth}
		assert.Empty(t, in.Validate())
	})

	t.Run("collects every violation, not just the first", func(t *testing.T) {
		in := NewPersonInput{BirthDate: birth, DeathDate: &earlier}
		violations := in.Validate()
		assert.GreaterOrEqual(t, len(violations), 2,
			"empty identity and death-before-birth must both be reported")
	})

	t.Run("death on the birth date is allowed", func(t *testing.T) {
		same := birth
		in := NewPersonInput{FirstName: "Ada", BirthDate: birth, DeathDate: &same}
		assert.Empty(t, in.Validate())
	})

	t.Run("missing birth date is reported", func(t *testing.T) {
		in := NewPersonInput{FirstName: "Ada"}
		assert.Contains(t, in.Validate(), "birth date is required")
	})
}

func TestSearchCriteriaEmpty(t *testing.T) {
	assert.True(t, SearchCriteria{}.Empty())
	assert.False(t, SearchCriteria{Name: "ada"}.Empty())
	assert.False(t, SearchCriteria{Moral: MoralOnly}.Empty())
	assert.False(t, SearchCriteria{Numbers: []int{7}}.Empty())
}
