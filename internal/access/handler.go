package access

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifepath/internal/platform/middleware"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/httputil"
	"lifepath/pkg/requestcontext"
)

// Handler exposes the access-code verification endpoint.
type Handler struct {
	logger     *slog.Logger
	sessions   *Sessions
	accessCode string
}

func NewHandler(logger *slog.Logger, sessions *Sessions, accessCode string) *Handler {
	return &Handler{logger: logger, sessions: sessions, accessCode: accessCode}
}

// Register registers the access routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify-code", h.handleVerifyCode)
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type verifyCodeResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func (h *Handler) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if h.accessCode == "" ||
		subtle.ConstantTimeCompare([]byte(req.Code), []byte(h.accessCode)) != 1 {
		h.logger.WarnContext(ctx, "access code rejected",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid access code"))
		return
	}

	token, err := h.sessions.Issue(requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to issue session token"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, verifyCodeResponse{Success: true, Token: token})
}
