package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"lifepath/internal/category/models"
	"lifepath/pkg/platform/sentinel"
)

type link struct {
	categoryID      int64
	superCategoryID int64
}

// InMemory mirrors the Postgres category store for unit tests.
type InMemory struct {
	mu         sync.RWMutex
	nextID     int64
	categories map[int64]models.Category
	supers     map[int64]models.SuperCategory
	links      map[link]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		nextID:     1,
		categories: make(map[int64]models.Category),
		supers:     make(map[int64]models.SuperCategory),
		links:      make(map[link]struct{}),
	}
}

func (s *InMemory) ListGrouped(_ context.Context) (models.GroupedCategories, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := models.GroupedCategories{}
	for _, c := range s.categories {
		keys := []string{}
		for l := range s.links {
			if l.categoryID == c.ID {
				if sc, ok := s.supers[l.superCategoryID]; ok {
					keys = append(keys, sc.Name)
				}
			}
		}
		if len(keys) == 0 {
			keys = []string{models.UngroupedKey}
		}
		for _, key := range keys {
			grouped[key] = append(grouped[key], c)
		}
	}
	for key := range grouped {
		sort.Slice(grouped[key], func(i, j int) bool {
			return grouped[key][i].Name < grouped[key][j].Name
		})
	}
	return grouped, nil
}

func (s *InMemory) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("category %q: %w", name, sentinel.ErrConflict)
		}
	}
	c := models.Category{ID: s.nextID, Name: name}
	s.nextID++
	s.categories[c.ID] = c
	return &c, nil
}

func (s *InMemory) RenameCategory(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("id %d: %w", id, sentinel.ErrNotFound)
	}
	for otherID, other := range s.categories {
		if otherID != id && strings.EqualFold(other.Name, name) {
			return fmt.Errorf("category %q: %w", name, sentinel.ErrConflict)
		}
	}
	c.Name = name
	s.categories[id] = c
	return nil
}

func (s *InMemory) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("id %d: %w", id, sentinel.ErrNotFound)
	}
	delete(s.categories, id)
	for l := range s.links {
		if l.categoryID == id {
			delete(s.links, l)
		}
	}
	return nil
}

func (s *InMemory) ListSuperCategories(_ context.Context) ([]models.SuperCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	supers := []models.SuperCategory{}
	for _, sc := range s.supers {
		supers = append(supers, sc)
	}
	sort.Slice(supers, func(i, j int) bool { return supers[i].ID < supers[j].ID })
	return supers, nil
}

func (s *InMemory) CreateSuperCategory(_ context.Context, name string) (*models.SuperCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sc := range s.supers {
		if strings.EqualFold(sc.Name, name) {
			return nil, fmt.Errorf("super category %q: %w", name, sentinel.ErrConflict)
		}
	}
	sc := models.SuperCategory{ID: s.nextID, Name: name}
	s.nextID++
	s.supers[sc.ID] = sc
	return &sc, nil
}

func (s *InMemory) RenameSuperCategory(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.supers[id]
	if !ok {
		return fmt.Errorf("id %d: %w", id, sentinel.ErrNotFound)
	}
	sc.Name = name
	s.supers[id] = sc
	return nil
}

func (s *InMemory) DeleteSuperCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.supers[id]; !ok {
		return fmt.Errorf("id %d: %w", id, sentinel.ErrNotFound)
	}
	delete(s.supers, id)
	for l := range s.links {
		if l.superCategoryID == id {
			delete(s.links, l)
		}
	}
	return nil
}

func (s *InMemory) LinkedSuperCategories(_ context.Context, categoryID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []int64{}
	for l := range s.links {
		if l.categoryID == categoryID {
			ids = append(ids, l.superCategoryID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *InMemory) Link(_ context.Context, categoryID, superCategoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryID]; !ok {
		return fmt.Errorf("category %d: %w", categoryID, sentinel.ErrNotFound)
	}
	if _, ok := s.supers[superCategoryID]; !ok {
		return fmt.Errorf("super category %d: %w", superCategoryID, sentinel.ErrNotFound)
	}
	s.links[link{categoryID: categoryID, superCategoryID: superCategoryID}] = struct{}{}
	return nil
}

func (s *InMemory) Unlink(_ context.Context, categoryID, superCategoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, link{categoryID: categoryID, superCategoryID: superCategoryID})
	return nil
}
