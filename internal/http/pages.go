package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	pagescmd "github.com/lumenworks/sectioncms/internal/commands/pages"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/sections"
)

func (api *API) pageRoutes(r chi.Router) {
	if api.pages == nil {
		r.HandleFunc("/*", api.unavailable)
		return
	}
	r.Get("/", api.handlePageList)
	r.Post("/", api.handlePageCreate)
	r.Post("/bulk", api.handlePageBulk)
	r.Get("/{id}", api.handlePageGet)
	r.Put("/{id}", api.handlePageUpdate)
	r.Delete("/{id}", api.handlePageDelete)
	r.Post("/{id}/duplicate", api.handlePageDuplicate)
	r.Get("/{id}/sections", api.handlePageSections)
	r.Put("/{id}/sections/reorder", api.handleSectionReorder)
}

func (api *API) handlePageList(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Pages.Read) {
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	list, err := api.pages.List(r.Context(), opts)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

func (api *API) handlePageGet(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Pages.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	page, err := api.pages.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handlePageCreate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Pages.Create) {
		return
	}
	var req pages.CreatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	page, err := api.pages.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, page)
}

func (api *API) handlePageUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Pages.Update) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req pages.UpdatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	req.ID = id
	page, err := api.pages.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	if !api.require(w, r, permissions.Pages.Delete) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.pages.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handlePageDuplicate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req pages.DuplicatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	var copied pages.Page
	cmd := pagescmd.DuplicatePageCommand{PageID: id, NewKey: req.NewKey, NewSlug: req.NewSlug, Result: &copied}
	if err := api.duplicatePage.Execute(r.Context(), cmd); err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, &copied)
}

func (api *API) handlePageBulk(w http.ResponseWriter, r *http.Request) {
	var req pages.BulkRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	var result pages.BulkResult
	cmd := pagescmd.BulkPagesCommand{Action: req.Action, IDs: req.IDs, Result: &result}
	if err := api.bulkPages.Execute(r.Context(), cmd); err != nil {
		api.writeError(w, r, err)
		return
	}
	if result.Errors == nil {
		result.Errors = []pages.BulkError{}
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (api *API) handlePageSections(w http.ResponseWriter, r *http.Request) {
	if api.sections == nil {
		api.unavailable(w, r)
		return
	}
	if !api.require(w, r, permissions.Sections.Read) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	list, err := api.sections.ListByPage(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": list})
}

func (api *API) handleSectionReorder(w http.ResponseWriter, r *http.Request) {
	if api.reorderSections == nil {
		api.unavailable(w, r)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req sections.ReorderSectionsRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	var ordered []*sections.Section
	cmd := pagescmd.ReorderSectionsCommand{PageID: id, Items: req.Items, Result: &ordered}
	if err := api.reorderSections.Execute(r.Context(), cmd); err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": ordered})
}
