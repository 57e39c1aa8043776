package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenworks/sectioncms/internal/content"
	cmshttp "github.com/lumenworks/sectioncms/internal/http"
	"github.com/lumenworks/sectioncms/internal/media"
	"github.com/lumenworks/sectioncms/internal/menus"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/users"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	sectionRepo := sections.NewMemoryRepository()
	pageRepo := pages.NewMemoryRepository(sectionRepo)
	api := cmshttp.NewAPI(
		cmshttp.WithContentResolver(content.NewResolver(pageRepo, sectionRepo)),
		cmshttp.WithPageService(pages.NewService(pageRepo)),
		cmshttp.WithSectionService(sections.NewService(sectionRepo, pageRepo)),
		cmshttp.WithMenuService(menus.NewService(menus.NewMemoryRepository())),
		cmshttp.WithMediaService(media.NewService(media.NewMemoryRepository())),
		cmshttp.WithUserService(users.NewService(users.NewMemoryRepository(), users.WithHashCost(bcrypt.MinCost))),
	)
	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, server *httptest.Server, method, path, role string, body any, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(cmshttp.RoleHeader, role)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func TestPublicContentFlow(t *testing.T) {
	server := newServer(t)

	var page pages.Page
	resp := call(t, server, http.MethodPost, "/admin/api/pages", "EDITOR", map[string]any{
		"key":          "home",
		"slug":         "/",
		"translations": []map[string]any{{"locale": "en", "title": "Home"}},
	}, &page)
	if resp.StatusCode != http.StatusCreated || page.ID == 0 {
		t.Fatalf("create page: status %d %+v", resp.StatusCode, page)
	}
	if resp.Header.Get(cmshttp.RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	resp = call(t, server, http.MethodPost, "/admin/api/sections", "EDITOR", map[string]any{
		"pageId": page.ID,
		"type":   "hero",
		"translations": []map[string]any{
			{"locale": "en", "content": map[string]any{"heading": "Building better sites"}},
		},
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create section: status %d", resp.StatusCode)
	}

	var view content.PageContent
	resp = call(t, server, http.MethodGet, "/api/content/home?locale=en", "", nil, &view)
	if resp.StatusCode != http.StatusOK || view.Page.Title == nil || *view.Page.Title != "Home" || len(view.Sections) != 1 {
		t.Fatalf("unexpected view %d %+v", resp.StatusCode, view)
	}

	view = content.PageContent{}
	call(t, server, http.MethodGet, "/api/content/home?locale=ko", "", nil, &view)
	if !view.Page.Fallback || !view.Sections[0].Fallback || len(view.Sections[0].Content) != 0 {
		t.Fatalf("expected ko fallbacks, got %+v", view)
	}

	var search struct {
		Results []content.SearchResult `json:"results"`
	}
	call(t, server, http.MethodGet, "/api/search?q=better&locale=en", "", nil, &search)
	if len(search.Results) != 1 || search.Results[0].PageKey != "home" {
		t.Fatalf("unexpected search %+v", search)
	}

	var sitemap struct {
		Pages []content.SitemapEntry `json:"pages"`
	}
	call(t, server, http.MethodGet, "/api/sitemap", "", nil, &sitemap)
	if len(sitemap.Pages) != 1 || sitemap.Pages[0].Slug != "/" {
		t.Fatalf("unexpected sitemap %+v", sitemap)
	}
}

func TestAdminErrorMapping(t *testing.T) {
	server := newServer(t)

	if resp := call(t, server, http.MethodGet, "/admin/api/pages", "", nil, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without role, got %d", resp.StatusCode)
	}
	if resp := call(t, server, http.MethodGet, "/admin/api/pages/abc", "VIEWER", nil, nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}
	if resp := call(t, server, http.MethodGet, "/admin/api/pages/42", "VIEWER", nil, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp := call(t, server, http.MethodPost, "/admin/api/pages", "VIEWER", map[string]any{"key": "x", "slug": "/x"}, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected viewer create to be forbidden, got %d", resp.StatusCode)
	}

	var failure struct {
		Error  string `json:"error"`
		Issues []struct {
			Path string `json:"path"`
		} `json:"issues"`
	}
	resp := call(t, server, http.MethodPost, "/admin/api/pages", "EDITOR", map[string]any{"key": "Bad Key", "slug": "nope"}, &failure)
	if resp.StatusCode != http.StatusUnprocessableEntity || failure.Error != "validation_failed" || len(failure.Issues) != 2 {
		t.Fatalf("expected 422 with issues, got %d %+v", resp.StatusCode, failure)
	}

	var page pages.Page
	call(t, server, http.MethodPost, "/admin/api/pages", "EDITOR", map[string]any{"key": "about", "slug": "/about"}, &page)
	if resp := call(t, server, http.MethodPost, "/admin/api/pages", "EDITOR", map[string]any{"key": "about", "slug": "/about"}, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate key, got %d", resp.StatusCode)
	}
	call(t, server, http.MethodPost, "/admin/api/sections", "EDITOR", map[string]any{"pageId": page.ID, "type": "rich"}, nil)

	path := "/admin/api/pages/" + jsonID(page.ID)
	if resp := call(t, server, http.MethodDelete, path, "EDITOR", nil, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected editor delete forbidden, got %d", resp.StatusCode)
	}
	if resp := call(t, server, http.MethodDelete, path, "ADMIN", nil, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while sections remain, got %d", resp.StatusCode)
	}
}

func TestAdminBulkAndDuplicate(t *testing.T) {
	server := newServer(t)
	var home pages.Page
	call(t, server, http.MethodPost, "/admin/api/pages", "ADMIN", map[string]any{
		"key": "home", "slug": "/", "translations": []map[string]any{{"locale": "en", "title": "Home"}},
	}, &home)

	var copied pages.Page
	resp := call(t, server, http.MethodPost, "/admin/api/pages/"+jsonID(home.ID)+"/duplicate", "EDITOR", map[string]any{"newKey": "home-2", "newSlug": "/home-2"}, &copied)
	if resp.StatusCode != http.StatusCreated || copied.IsEnabled || *copied.Translations[0].Title != "Home (Copy)" {
		t.Fatalf("unexpected duplicate %d %+v", resp.StatusCode, copied)
	}

	if resp := call(t, server, http.MethodPost, "/admin/api/pages/bulk", "EDITOR", map[string]any{"action": "delete", "ids": []int64{copied.ID}}, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected editor bulk delete forbidden, got %d", resp.StatusCode)
	}
	var result pages.BulkResult
	resp = call(t, server, http.MethodPost, "/admin/api/pages/bulk", "ADMIN", map[string]any{"action": "delete", "ids": []int64{copied.ID, 999}}, &result)
	if resp.StatusCode != http.StatusOK || result.Processed != 1 || result.Failed != 1 {
		t.Fatalf("unexpected bulk result %d %+v", resp.StatusCode, result)
	}
}

func TestNavigationAndUsers(t *testing.T) {
	server := newServer(t)
	resp := call(t, server, http.MethodPost, "/admin/api/menus", "EDITOR", map[string]any{
		"key": "main",
		"translations": []map[string]any{{"locale": "en", "items": []map[string]any{
			{"label": "Home", "href": "/"},
		}}},
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create menu: %d", resp.StatusCode)
	}
	var nav struct {
		Items []menus.MenuItem `json:"items"`
	}
	call(t, server, http.MethodGet, "/api/navigation/main?locale=en", "", nil, &nav)
	if len(nav.Items) != 1 || nav.Items[0].Href != "/" {
		t.Fatalf("unexpected navigation %+v", nav)
	}
	call(t, server, http.MethodGet, "/api/navigation/footer", "", nil, &nav)
	if nav.Items == nil || len(nav.Items) != 0 {
		t.Fatalf("expected empty item list, got %+v", nav)
	}

	if resp := call(t, server, http.MethodGet, "/admin/api/users", "EDITOR", nil, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected editor forbidden on users, got %d", resp.StatusCode)
	}
	var user map[string]any
	resp = call(t, server, http.MethodPost, "/admin/api/users", "ADMIN", map[string]any{"email": "Ed@Example.com", "password": "long-enough", "role": "EDITOR"}, &user)
	if resp.StatusCode != http.StatusCreated || user["email"] != "ed@example.com" {
		t.Fatalf("unexpected user %d %+v", resp.StatusCode, user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
