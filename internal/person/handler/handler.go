// Package handler is the thin HTTP layer for the person registry. It decodes
// requests, delegates to the service, and translates domain errors; business
// logic stays in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifepath/internal/person/models"
	"lifepath/internal/person/service"
	"lifepath/internal/platform/middleware"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/httputil"
)

// Service defines the person operations the handler depends on.
type Service interface {
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.PersonWithCategories, error)
	Create(ctx context.Context, in models.NewPersonInput) (*service.CreateResult, error)
	Recompute(ctx context.Context, onlyMissing bool) (int, error)
}

// Handler handles person-related endpoints.
type Handler struct {
	logger  *slog.Logger
	persons Service
}

// New creates a new person Handler.
func New(persons Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, persons: persons}
}

// Register registers the person routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/persons", h.handleSearch)
	r.Post("/persons", h.handleCreate)
	r.Post("/persons/recalculate-all", h.handleRecomputeAll)
	r.Post("/persons/recalculate-missing", h.handleRecomputeMissing)
}

type searchResponse struct {
	Success bool                          `json:"success"`
	Persons []models.PersonWithCategories `json:"persons"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid search criteria",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	results, err := h.persons.Search(ctx, criteria)
	if err != nil {
		h.logger.ErrorContext(ctx, "search failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, searchResponse{Success: true, Persons: results})
}

type createResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type conflictResponse struct {
	Exists  bool            `json:"exists"`
	Matches []models.Person `json:"matches"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.persons.Create(ctx, input)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) || dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "person creation rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "person creation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	if len(result.DuplicateMatches) > 0 {
		// Conditional success: the caller can re-issue with confirm=true.
		httputil.WriteJSON(w, http.StatusConflict, conflictResponse{
			Exists:  true,
			Matches: result.DuplicateMatches,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createResponse{Success: true, ID: result.Person.ID})
}

type recomputeResponse struct {
	Success      bool `json:"success"`
	UpdatedCount int  `json:"updated_count"`
}

func (h *Handler) handleRecomputeAll(w http.ResponseWriter, r *http.Request) {
	h.recompute(w, r, false)
}

func (h *Handler) handleRecomputeMissing(w http.ResponseWriter, r *http.Request) {
	h.recompute(w, r, true)
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request, onlyMissing bool) {
	ctx := r.Context()

	updated, err := h.persons.Recompute(ctx, onlyMissing)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute failed",
			"request_id", middleware.GetRequestID(ctx),
			"only_missing", onlyMissing,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, recomputeResponse{Success: true, UpdatedCount: updated})
}
