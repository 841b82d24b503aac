package access

import (
	"log/slog"
	"net/http"
	"strings"

	"lifepath/internal/platform/middleware"
	dErrors "lifepath/pkg/domain-errors"
	"lifepath/pkg/platform/httputil"
)

// Require validates the bearer session token on gated routes. When no access
// code is configured the gate is disabled and requests pass through; the
// registry then behaves as an open instance, which is the development default.
func Require(sessions *Sessions, accessCode string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if accessCode == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing session token"))
				return
			}
			if err := sessions.Validate(token); err != nil {
				logger.WarnContext(r.Context(), "session token rejected",
					"request_id", middleware.GetRequestID(r.Context()),
				)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
