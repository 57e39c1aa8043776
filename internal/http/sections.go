package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	pagescmd "github.com/lumenworks/sectioncms/internal/commands/pages"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/sections"
)

func (api *API) sectionRoutes(r chi.Router) {
	if api.sections == nil {
		r.HandleFunc("/*", api.unavailable)
		return
	}
	r.Post("/", api.handleSectionCreate)
	r.Get("/{id}", api.handleSectionGet)
	r.Put("/{id}", api.handleSectionUpdate)
	r.Delete("/{id}", api.handleSectionDelete)
}

func (api *API) handleSectionCreate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Sections.Create) {
		return
	}
	var req sections.CreateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	section, err := api.sections.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, section)
}

func (api *API) handleSectionGet(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Sections.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	section, err := api.sections.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, section)
}

func (api *API) handleSectionUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Sections.Update) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req sections.UpdateSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	req.ID = id
	section, err := api.sections.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, section)
}

func (api *API) handleSectionDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.deleteSection.Execute(r.Context(), pagescmd.DeleteSectionCommand{SectionID: id}); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
