package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lumenworks/sectioncms/internal/content"
)

func (api *API) locale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		return locale
	}
	return api.defaultLocale
}

func (api *API) handlePageContent(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		api.unavailable(w, r)
		return
	}
	view, err := api.content.GetPageContent(r.Context(), chi.URLParam(r, "pageKey"), api.locale(r))
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (api *API) handleNavigation(w http.ResponseWriter, r *http.Request) {
	if api.navigation == nil {
		api.unavailable(w, r)
		return
	}
	items, err := api.navigation.Resolve(r.Context(), chi.URLParam(r, "menuKey"), api.locale(r))
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (api *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		api.unavailable(w, r)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	query := r.URL.Query()
	results, err := api.content.Search(r.Context(), content.SearchQuery{
		Query:   query.Get("q"),
		Locale:  api.locale(r),
		PageKey: strings.TrimSpace(query.Get("page")),
		Limit:   limit,
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"results": results})
}

func (api *API) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		api.unavailable(w, r)
		return
	}
	entries, err := api.content.Sitemap(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"pages": entries})
}
