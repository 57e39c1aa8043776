package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/permissions"
)

func (api *API) menuRoutes(r chi.Router) {
	if api.menus == nil {
		r.HandleFunc("/*", api.unavailable)
		return
	}
	r.Get("/", api.handleMenuList)
	r.Post("/", api.handleMenuCreate)
	r.Get("/{id}", api.handleMenuGet)
	r.Put("/{id}", api.handleMenuUpdate)
	r.Delete("/{id}", api.handleMenuDelete)
}

func (api *API) handleMenuList(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Menus.Read) {
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	list, err := api.menus.List(r.Context(), opts)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (api *API) handleMenuGet(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Menus.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	menu, err := api.menus.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, menu)
}

func (api *API) handleMenuCreate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Menus.Create) {
		return
	}
	var req menus.CreateMenuRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	menu, err := api.menus.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, menu)
}

func (api *API) handleMenuUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Menus.Update) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req menus.UpdateMenuRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	req.ID = id
	menu, err := api.menus.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, menu)
}

func (api *API) handleMenuDelete(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Menus.Delete) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.menus.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
