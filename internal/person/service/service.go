// Package service implements the person registry operations: criteria search,
// duplicate-checked creation, and bulk recomputation of life path numbers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"lifepath/internal/audit"
	"lifepath/internal/numerology"
	personmetrics "lifepath/internal/person/metrics"
	"lifepath/internal/person/models"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/sentinel"
	"lifepath/pkg/requestcontext"
)

// Store is the person persistence contract. Both the Postgres and the
// in-memory implementations satisfy it.
type Store interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.PersonWithCategories, error)
	FindByBirthDate(ctx context.Context, birthDate time.Time) ([]models.Person, error)
	CreateWithCategories(ctx context.Context, p *models.Person, categoryIDs []int64) error
	ListForRecompute(ctx context.Context, onlyMissing bool) ([]models.Person, error)
	UpdateNumber(ctx context.Context, personID int64, number int) error
}

// Service orchestrates person operations over the store.
type Service struct {
	store            Store
	logger           *slog.Logger
	metrics          *personmetrics.Metrics
	audit            *audit.Recorder
	recomputeWorkers int
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithMetrics(m *personmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit attaches the audit trail; without it events are dropped.
func WithAudit(r *audit.Recorder) Option {
	return func(s *Service) { s.audit = r }
}

// WithRecomputeWorkers bounds the concurrency of bulk recomputation.
func WithRecomputeWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recomputeWorkers = n
		}
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:            store,
		logger:           logger,
		recomputeWorkers: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns persons matching the AND-composition of all supplied
// criteria, decorated with category names. No matches is a valid empty
// result, not an error.
func (s *Service) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.PersonWithCategories, error) {
	start := time.Now()
	results, err := s.store.Search(ctx, criteria)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search failed")
	}
	s.metrics.ObserveSearchLatency(time.Since(start))
	return results, nil
}

// CreateResult is either a created person or a withheld creation with the
// conflicting existing persons. Exactly one of the two is populated.
type CreateResult struct {
	Person           *models.Person
	DuplicateMatches []models.Person
}

// Create validates the input, runs the advisory duplicate check, derives the
// life path number, and persists person plus category links atomically.
//
// The duplicate check is a separate non-locking read: two concurrent
// creations for the same birth date can both pass it and both insert. That is
// accepted; the check is advisory, not a uniqueness constraint.
func (s *Service) Create(ctx context.Context, in models.NewPersonInput) (*CreateResult, error) {
	if violations := in.Validate(); len(violations) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "person failed validation").
			WithDetails(violations...)
	}

	if !in.Confirm {
		matches, err := s.store.FindByBirthDate(ctx, in.BirthDate)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "duplicate check failed")
		}
		if len(matches) > 0 {
			s.metrics.IncrementDuplicateConflicts()
			return &CreateResult{DuplicateMatches: matches}, nil
		}
	}

	number := numerology.Number(in.BirthDate)
	person := &models.Person{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Description:   in.Description,
		IsMoralPerson: in.IsMoralPerson,
		BirthDate:     in.BirthDate,
		DeathDate:     in.DeathDate,
		Number:        &number,
		CreatedAt:     requestcontext.Now(ctx),
	}

	if err := s.store.CreateWithCategories(ctx, person, in.CategoryIDs); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unknown category in selection")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
	}

	s.metrics.IncrementPersonsCreated()
	s.audit.Record(ctx, audit.Event{
		Timestamp: person.CreatedAt,
		Action:    audit.ActionPersonCreated,
		PersonID:  &person.ID,
	})
	return &CreateResult{Person: person}, nil
}

// Recompute re-derives the life path number for every selected person and
// reports how many rows were updated. Row updates run concurrently up to the
// configured worker bound; one row's failure is logged and counted but never
// aborts the rest.
func (s *Service) Recompute(ctx context.Context, onlyMissing bool) (int, error) {
	persons, err := s.store.ListForRecompute(ctx, onlyMissing)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons for recompute")
	}

	var updated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.recomputeWorkers)

	for _, p := range persons {
		g.Go(func() error {
			number := numerology.Number(p.BirthDate)
			if err := s.store.UpdateNumber(gctx, p.ID, number); err != nil {
				failed.Add(1)
				s.logger.WarnContext(gctx, "recompute failed for person",
					"person_id", p.ID,
					"error", err.Error(),
				)
				return nil // row failures are isolated
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are counted

	s.metrics.AddRecomputedRows("updated", int(updated.Load()))
	s.metrics.AddRecomputedRows("failed", int(failed.Load()))
	s.audit.Record(ctx, audit.Event{
		Action: audit.ActionNumbersRecomputed,
		Detail: fmt.Sprintf("updated=%d failed=%d only_missing=%t", updated.Load(), failed.Load(), onlyMissing),
	})
	return int(updated.Load()), nil
}
