package pagescmd_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lumenworks/sectioncms/internal/commands"
	pagescmd "github.com/lumenworks/sectioncms/internal/commands/pages"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/sections"
	goerrors "github.com/goliatone/go-errors"
)

type fixture struct {
	pages    pages.Service
	sections sections.Service
	pageIDs  []int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sectionRepo := sections.NewMemoryRepository()
	pageRepo := pages.NewMemoryRepository(sectionRepo)
	f := &fixture{
		pages:    pages.NewService(pageRepo),
		sections: sections.NewService(sectionRepo, pageRepo),
	}
	ctx := context.Background()
	for _, key := range []string{"home", "about", "contact"} {
		page, err := f.pages.Create(ctx, pages.CreatePageRequest{Key: key, Slug: "/" + key})
		if err != nil {
			t.Fatalf("create page %s: %v", key, err)
		}
		f.pageIDs = append(f.pageIDs, page.ID)
	}
	return f
}

func TestBulkPagesHandlerRequiresDeletePermission(t *testing.T) {
	f := newFixture(t)
	handler := pagescmd.NewBulkPagesHandler(f.pages, nil)

	editor := permissions.WithRole(context.Background(), domain.RoleEditor)
	err := handler.Execute(editor, pagescmd.BulkPagesCommand{Action: pages.BulkDelete, IDs: f.pageIDs})
	if !goerrors.IsCategory(err, goerrors.CategoryAuthz) || !pagescmd.IsDenied(err) {
		t.Fatalf("expected authz permission error, got %v", err)
	}

	var result pages.BulkResult
	err = handler.Execute(editor, pagescmd.BulkPagesCommand{Action: pages.BulkDisable, IDs: []int64{f.pageIDs[0], 999}, Result: &result})
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if result.Processed != 1 || result.Failed != 1 || result.Errors[0].ID != 999 || result.Errors[0].Code != "PAGE_NOT_FOUND" {
		t.Fatalf("unexpected bulk result %+v", result)
	}

	admin := permissions.WithRole(context.Background(), domain.RoleAdmin)
	if err := handler.Execute(admin, pagescmd.BulkPagesCommand{Action: pages.BulkDelete, IDs: f.pageIDs, Result: &result}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if result.Processed != 3 {
		t.Fatalf("expected every page deleted, got %+v", result)
	}
}

func TestBulkDeleteReportsPagesWithSectionsAsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := permissions.WithRole(context.Background(), domain.RoleAdmin)
	if _, err := f.sections.Create(ctx, sections.CreateSectionRequest{PageID: f.pageIDs[0], Type: sections.TypeRich}); err != nil {
		t.Fatalf("create section: %v", err)
	}

	var result pages.BulkResult
	handler := pagescmd.NewBulkPagesHandler(f.pages, nil)
	if err := handler.Execute(ctx, pagescmd.BulkPagesCommand{Action: pages.BulkDelete, IDs: f.pageIDs, Result: &result}); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if result.Processed != 2 || result.Failed != 1 {
		t.Fatalf("expected one blocked page, got %+v", result)
	}
	blocked := result.Errors[0]
	if blocked.ID != f.pageIDs[0] || blocked.Code != "PAGE_INVALID_STATE" {
		t.Fatalf("unexpected bulk error %+v", blocked)
	}
	category, _ := commands.Classify(blocked.Err)
	if category != goerrors.CategoryConflict || !errors.Is(blocked.Err, domain.ErrInvalidState) {
		t.Fatalf("expected conflict category for invalid state, got %s %v", category, blocked.Err)
	}
}

func TestBulkPagesHandlerValidation(t *testing.T) {
	f := newFixture(t)
	err := pagescmd.NewBulkPagesHandler(f.pages, nil).Execute(context.Background(), pagescmd.BulkPagesCommand{Action: "archive"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestDuplicatePageHandler(t *testing.T) {
	f := newFixture(t)
	handler := pagescmd.NewDuplicatePageHandler(f.pages, nil)
	ctx := permissions.WithRole(context.Background(), domain.RoleEditor)

	var copied pages.Page
	if err := handler.Execute(ctx, pagescmd.DuplicatePageCommand{PageID: f.pageIDs[0], NewKey: "home-copy", NewSlug: "/home-copy", Result: &copied}); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copied.Key != "home-copy" || copied.IsEnabled {
		t.Fatalf("unexpected copy %+v", copied)
	}

	err := handler.Execute(ctx, pagescmd.DuplicatePageCommand{PageID: f.pageIDs[0], NewKey: "about", NewSlug: "/x"})
	if !errors.Is(err, domain.ErrConflict) || !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict category through command wrapper, got %v", err)
	}
	if _, code := commands.Classify(err); code != "PAGE_CONFLICT" {
		t.Fatalf("expected PAGE_CONFLICT, got %s", code)
	}

	viewer := permissions.WithRole(context.Background(), domain.RoleViewer)
	if err := handler.Execute(viewer, pagescmd.DuplicatePageCommand{PageID: f.pageIDs[0], NewKey: "other", NewSlug: "/other"}); !pagescmd.IsDenied(err) {
		t.Fatalf("expected viewer denied, got %v", err)
	}
}

func TestSectionHandlers(t *testing.T) {
	f := newFixture(t)
	ctx := permissions.WithRole(context.Background(), domain.RoleEditor)
	first, err := f.sections.Create(ctx, sections.CreateSectionRequest{PageID: f.pageIDs[0], Type: sections.TypeRich})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	second, _ := f.sections.Create(ctx, sections.CreateSectionRequest{PageID: f.pageIDs[0], Type: sections.TypeHero})

	var ordered []*sections.Section
	reorder := pagescmd.NewReorderSectionsHandler(f.sections, nil)
	err = reorder.Execute(ctx, pagescmd.ReorderSectionsCommand{
		PageID: f.pageIDs[0],
		Items:  []sections.SortOrderInput{{ID: first.ID, SortOrder: 5}, {ID: second.ID, SortOrder: 1}},
		Result: &ordered,
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(ordered) != 2 || ordered[0].ID != second.ID {
		t.Fatalf("expected hero first, got %+v", ordered)
	}

	del := pagescmd.NewDeleteSectionHandler(f.sections, nil)
	if err := del.Execute(permissions.WithRole(context.Background(), domain.RoleViewer), pagescmd.DeleteSectionCommand{SectionID: first.ID}); !pagescmd.IsDenied(err) {
		t.Fatalf("expected viewer denied, got %v", err)
	}
	if err := del.Execute(ctx, pagescmd.DeleteSectionCommand{SectionID: first.ID}); err != nil {
		t.Fatalf("editor delete: %v", err)
	}
	if err := del.Execute(ctx, pagescmd.DeleteSectionCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	err = del.Execute(ctx, pagescmd.DeleteSectionCommand{SectionID: first.ID})
	if !domain.IsNotFound(err) || !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if _, code := commands.Classify(err); code != "SECTION_NOT_FOUND" {
		t.Fatalf("expected SECTION_NOT_FOUND, got %s", code)
	}
}
