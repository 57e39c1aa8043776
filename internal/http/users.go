package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/users"
)

func (api *API) userRoutes(r chi.Router) {
	if api.users == nil {
		r.HandleFunc("/*", api.unavailable)
		return
	}
	r.Get("/", api.handleUserList)
	r.Post("/", api.handleUserCreate)
	r.Get("/{id}", api.handleUserGet)
	r.Put("/{id}/role", api.handleUserRole)
	r.Delete("/{id}", api.handleUserDelete)
}

func (api *API) handleUserList(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Users.Read) {
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	list, err := api.users.List(r.Context(), opts)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (api *API) handleUserGet(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Users.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (api *API) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Users.Create) {
		return
	}
	var req users.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (api *API) handleUserRole(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Users.Update) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req users.UpdateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	req.ID = id
	user, err := api.users.UpdateRole(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (api *API) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Users.Delete) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.users.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
