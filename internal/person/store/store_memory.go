package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"lifepath/internal/person/models"
	"lifepath/pkg/platform/sentinel"
)

// InMemory mirrors the Postgres store for unit tests and local development.
// Category names are seeded directly since the memory store has no join to
// a category table.
type InMemory struct {
	mu         sync.RWMutex
	nextID     int64
	persons    map[int64]models.Person
	links      map[int64][]int64 // person id -> category ids
	categories map[int64]string  // category id -> display name
}

func NewInMemory() *InMemory {
	return &InMemory{
		nextID:     1,
		persons:    make(map[int64]models.Person),
		links:      make(map[int64][]int64),
		categories: make(map[int64]string),
	}
}

// SeedCategory registers a category the store can link persons to.
func (s *InMemory) SeedCategory(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = name
}

func (s *InMemory) Search(_ context.Context, criteria models.SearchCriteria) ([]models.PersonWithCategories, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []models.PersonWithCategories{}
	for _, p := range s.persons {
		if !s.matches(p, criteria) {
			continue
		}
		results = append(results, models.PersonWithCategories{
			Person:        p,
			CategoryNames: s.categoryNames(p.ID),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return results, nil
}

func (s *InMemory) matches(p models.Person, c models.SearchCriteria) bool {
	if c.Name != "" {
		needle := strings.ToLower(c.Name)
		if !strings.Contains(strings.ToLower(p.FirstName), needle) &&
			!strings.Contains(strings.ToLower(p.LastName), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if len(c.Numbers) > 0 {
		if p.Number == nil || !containsInt(c.Numbers, *p.Number) {
			return false
		}
	}
	if len(c.BirthDays) > 0 && !containsInt(c.BirthDays, p.BirthDate.Day()) {
		return false
	}
	if c.Moral != models.MoralAny && p.IsMoralPerson != (c.Moral == models.MoralOnly) {
		return false
	}
	if c.BirthDateFrom != nil && p.BirthDate.Before(*c.BirthDateFrom) {
		return false
	}
	if c.BirthDateTo != nil && p.BirthDate.After(*c.BirthDateTo) {
		return false
	}
	if c.DeathDateFrom != nil && (p.DeathDate == nil || p.DeathDate.Before(*c.DeathDateFrom)) {
		return false
	}
	if c.DeathDateTo != nil && (p.DeathDate == nil || p.DeathDate.After(*c.DeathDateTo)) {
		return false
	}
	if len(c.CategoryIDs) > 0 {
		member := false
		for _, linked := range s.links[p.ID] {
			for _, want := range c.CategoryIDs {
				if linked == want {
					member = true
				}
			}
		}
		if !member {
			return false
		}
	}
	return true
}

func (s *InMemory) categoryNames(personID int64) []string {
	names := []string{}
	for _, categoryID := range s.links[personID] {
		if name, ok := s.categories[categoryID]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *InMemory) FindByBirthDate(_ context.Context, birthDate time.Time) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var persons []models.Person
	for _, p := range s.persons {
		if p.BirthDate.Equal(birthDate) {
			persons = append(persons, p)
		}
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	return persons, nil
}

// CreateWithCategories validates every link target before mutating anything,
// mirroring the all-or-nothing transaction of the Postgres store.
func (s *InMemory) CreateWithCategories(_ context.Context, p *models.Person, categoryIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, categoryID := range categoryIDs {
		if _, ok := s.categories[categoryID]; !ok {
			return fmt.Errorf("link category %d: %w", categoryID, sentinel.ErrNotFound)
		}
	}

	p.ID = s.nextID
	s.nextID++
	s.persons[p.ID] = *p
	s.links[p.ID] = append([]int64{}, categoryIDs...)
	return nil
}

func (s *InMemory) ListForRecompute(_ context.Context, onlyMissing bool) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var persons []models.Person
	for _, p := range s.persons {
		if onlyMissing && p.Number != nil {
			continue
		}
		persons = append(persons, models.Person{ID: p.ID, BirthDate: p.BirthDate})
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	return persons, nil
}

func (s *InMemory) UpdateNumber(_ context.Context, personID int64, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.persons[personID]
	if !ok {
		return fmt.Errorf("person %d: %w", personID, sentinel.ErrNotFound)
	}
	p.Number = &number
	s.persons[personID] = p
	return nil
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
