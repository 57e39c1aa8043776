package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/validation"
)

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Issues  []validation.Issue `json:"issues,omitempty"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return badRequest("request body required")
	}
	if err := render.DecodeJSON(r.Body, target); err != nil {
		return badRequest("invalid json: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

func (api *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), api.logger).Error("http.request.failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, r, status, payload)
}

func mapError(err error) (int, errorResponse) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	case errors.Is(err, permissions.ErrPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: "request failed validation",
			Issues:  validation.Issues(err),
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, errorResponse{Error: "invalid_state", Message: err.Error()}
	case errors.Is(err, errBadRequest), goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return value, nil
}

func listOptions(r *http.Request) (domain.ListOptions, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return domain.ListOptions{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return domain.ListOptions{}, err
	}
	query := r.URL.Query()
	return domain.ListOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    query.Get("sortBy"),
		SortOrder: domain.SortOrder(query.Get("sortOrder")),
	}, nil
}

func (api *API) require(w http.ResponseWriter, r *http.Request, permission string) bool {
	if err := permissions.Require(r.Context(), permission); err != nil {
		api.writeError(w, r, err)
		return false
	}
	return true
}
