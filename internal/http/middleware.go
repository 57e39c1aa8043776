package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/permissions"
)

func (api *API) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logging.ContextWithFields(r.Context(), map[string]any{"request_id": id})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects admin requests without a known role and attaches the role
// grants to the request context.
func (api *API) requireRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := domain.ParseRole(r.Header.Get(RoleHeader))
		if !ok {
			writeJSON(w, r, http.StatusForbidden, errorResponse{
				Error:   "forbidden",
				Message: "missing or unknown " + RoleHeader + " header",
			})
			return
		}
		ctx := permissions.WithRole(r.Context(), role)
		ctx = logging.ContextWithFields(ctx, map[string]any{"role": role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
