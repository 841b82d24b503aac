// Package handler is the thin HTTP layer for category and super-category
// management.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lifepath/internal/category/models"
	"lifepath/internal/platform/middleware"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/httputil"
)

// Service defines the category operations the handler depends on.
type Service interface {
	ListGrouped(ctx context.Context) (models.GroupedCategories, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
	ListSuperCategories(ctx context.Context) ([]models.SuperCategory, error)
	CreateSuperCategory(ctx context.Context, name string) (*models.SuperCategory, error)
	RenameSuperCategory(ctx context.Context, id int64, name string) error
	DeleteSuperCategory(ctx context.Context, id int64) error
	LinkedSuperCategories(ctx context.Context, categoryID int64) ([]int64, error)
	Link(ctx context.Context, categoryID, superCategoryID int64) error
	Unlink(ctx context.Context, categoryID, superCategoryID int64) error
}

// Handler handles category-related endpoints.
type Handler struct {
	logger     *slog.Logger
	categories Service
}

// New creates a new category Handler.
func New(categories Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, categories: categories}
}

// Register registers the category routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/categories", h.handleListGrouped)
	r.Post("/categories", h.handleCreateCategory)
	r.Put("/categories/{id}", h.handleRenameCategory)
	r.Delete("/categories/{id}", h.handleDeleteCategory)

	r.Get("/categories/link", h.handleListLinks)
	r.Post("/categories/link", h.handleLink)
	r.Delete("/categories/link", h.handleUnlink)

	r.Get("/supercategories", h.handleListSuperCategories)
	r.Post("/supercategories", h.handleCreateSuperCategory)
	r.Put("/supercategories/{id}", h.handleRenameSuperCategory)
	r.Delete("/supercategories/{id}", h.handleDeleteSuperCategory)
}

type nameRequest struct {
	Name string `json:"name"`
}

type groupedResponse struct {
	Success    bool                     `json:"success"`
	Categories models.GroupedCategories `json:"categories"`
}

type categoryResponse struct {
	Success  bool             `json:"success"`
	Category *models.Category `json:"category"`
}

type superCategoriesResponse struct {
	Success         bool                   `json:"success"`
	SuperCategories []models.SuperCategory `json:"supercategories"`
}

type superCategoryResponse struct {
	Success       bool                  `json:"success"`
	SuperCategory *models.SuperCategory `json:"supercategory"`
}

type linksResponse struct {
	Success          bool    `json:"success"`
	SuperCategoryIDs []int64 `json:"supercategory_ids"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleListGrouped(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	grouped, err := h.categories.ListGrouped(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "category listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if grouped == nil {
		grouped = models.GroupedCategories{}
	}

	httputil.WriteJSON(w, http.StatusOK, groupedResponse{Success: true, Categories: grouped})
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}

	created, err := h.categories.CreateCategory(ctx, name)
	if err != nil {
		h.writeServiceError(ctx, w, "category creation failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, categoryResponse{Success: true, Category: created})
}

func (h *Handler) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}

	if err := h.categories.RenameCategory(ctx, id, name); err != nil {
		h.writeServiceError(ctx, w, "category rename failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(ctx, id); err != nil {
		h.writeServiceError(ctx, w, "category delete failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleListSuperCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	supers, err := h.categories.ListSuperCategories(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "super category listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if supers == nil {
		supers = []models.SuperCategory{}
	}

	httputil.WriteJSON(w, http.StatusOK, superCategoriesResponse{Success: true, SuperCategories: supers})
}

func (h *Handler) handleCreateSuperCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}

	created, err := h.categories.CreateSuperCategory(ctx, name)
	if err != nil {
		h.writeServiceError(ctx, w, "super category creation failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, superCategoryResponse{Success: true, SuperCategory: created})
}

func (h *Handler) handleRenameSuperCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	name, ok := h.decodeName(w, r)
	if !ok {
		return
	}

	if err := h.categories.RenameSuperCategory(ctx, id, name); err != nil {
		h.writeServiceError(ctx, w, "super category rename failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleDeleteSuperCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.categories.DeleteSuperCategory(ctx, id); err != nil {
		h.writeServiceError(ctx, w, "super category delete failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categoryID, err := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category_id must be an integer"))
		return
	}

	ids, err := h.categories.LinkedSuperCategories(ctx, categoryID)
	if err != nil {
		h.writeServiceError(ctx, w, "link listing failed", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	httputil.WriteJSON(w, http.StatusOK, linksResponse{Success: true, SuperCategoryIDs: ids})
}

type linkRequest struct {
	CategoryID      int64 `json:"category_id"`
	SuperCategoryID int64 `json:"supercategory_id"`
}

func (h *Handler) handleLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeLink(w, r)
	if !ok {
		return
	}

	if err := h.categories.Link(ctx, req.CategoryID, req.SuperCategoryID); err != nil {
		h.writeServiceError(ctx, w, "link failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleUnlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeLink(w, r)
	if !ok {
		return
	}

	if err := h.categories.Unlink(ctx, req.CategoryID, req.SuperCategoryID); err != nil {
		h.writeServiceError(ctx, w, "unlink failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return "", false
	}
	return req.Name, true
}

func (h *Handler) decodeLink(w http.ResponseWriter, r *http.Request) (linkRequest, bool) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return linkRequest{}, false
	}
	if req.CategoryID == 0 || req.SuperCategoryID == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category_id and supercategory_id are required"))
		return linkRequest{}, false
	}
	return req, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be an integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	log := h.logger.WarnContext
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		log = h.logger.ErrorContext
	}
	log(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
