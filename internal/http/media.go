package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumenworks/sectioncms/internal/media"
	"github.com/lumenworks/sectioncms/internal/permissions"
)

func (api *API) mediaRoutes(r chi.Router) {
	if api.media == nil {
		r.HandleFunc("/*", api.unavailable)
		return
	}
	r.Get("/", api.handleMediaList)
	r.Post("/", api.handleMediaCreate)
	r.Get("/{id}", api.handleMediaGet)
	r.Put("/{id}", api.handleMediaUpdate)
	r.Delete("/{id}", api.handleMediaDelete)
}

func (api *API) handleMediaList(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Media.Read) {
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	list, err := api.media.List(r.Context(), opts)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (api *API) handleMediaGet(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Media.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	record, err := api.media.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

func (api *API) handleMediaCreate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Media.Create) {
		return
	}
	var req media.CreateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	record, err := api.media.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, record)
}

func (api *API) handleMediaUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Media.Update) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req media.UpdateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	req.ID = id
	record, err := api.media.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

func (api *API) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Media.Delete) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.media.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
