package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/pkg/testsupport"
)

func TestBunRepositoriesPageLifecycle(t *testing.T) {
	db := testsupport.NewMigratedDB(t)
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

	pageRepo := pages.NewBunRepository(db)
	sectionRepo := sections.NewBunRepository(db)
	pageSvc := pages.NewService(pageRepo, pages.WithClock(clock))
	sectionSvc := sections.NewService(sectionRepo, pageRepo, sections.WithClock(clock))

	page, err := pageSvc.Create(ctx, pages.CreatePageRequest{
		Key:          "home",
		Slug:         "/",
		Translations: []pages.TranslationInput{{Locale: "en", Title: strPtr("Home")}, {Locale: "ko", Title: strPtr("홈")}},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if len(page.Translations) != 2 || page.Translations[0].Locale != "en" {
		t.Fatalf("expected translations ordered by locale, got %+v", page.Translations)
	}

	hero, err := sectionSvc.Create(ctx, sections.CreateSectionRequest{
		PageID: page.ID,
		Type:   sections.TypeHero,
		Config: map[string]any{"variant": "wide"},
		Translations: []sections.TranslationInput{
			{Locale: "en", Content: map[string]any{"heading": "Hello", "ctas": []any{map[string]any{"text": "Go", "href": "/go"}}}},
		},
	})
	if err != nil {
		t.Fatalf("create hero: %v", err)
	}
	rich, err := sectionSvc.Create(ctx, sections.CreateSectionRequest{PageID: page.ID, Type: sections.TypeRich})
	if err != nil {
		t.Fatalf("create rich: %v", err)
	}
	if hero.SortOrder != 0 || rich.SortOrder != 1 {
		t.Fatalf("expected appended sort orders, got %d and %d", hero.SortOrder, rich.SortOrder)
	}
	loaded, err := sectionRepo.GetByID(ctx, hero.ID)
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	if loaded.Config["variant"] != "wide" || loaded.Translation("en").Content["heading"] != "Hello" {
		t.Fatalf("unexpected stored hero %+v", loaded)
	}

	if err := pageSvc.Delete(ctx, page.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected delete to be blocked, got %v", err)
	}

	duplicate, err := pageSvc.Duplicate(ctx, pages.DuplicatePageRequest{ID: page.ID, NewKey: "home-copy", NewSlug: "/home-copy"})
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if duplicate.IsEnabled || *duplicate.Translation("ko").Title != "홈 (Copy)" {
		t.Fatalf("unexpected duplicate %+v", duplicate)
	}
	copied, err := sectionRepo.ListByPage(ctx, duplicate.ID, false)
	if err != nil {
		t.Fatalf("list copied: %v", err)
	}
	if len(copied) != 2 || copied[0].Type != sections.TypeHero || copied[0].ID == hero.ID {
		t.Fatalf("unexpected copied sections %+v", copied)
	}
	if len(copied[0].Translations) != 1 || copied[0].Translations[0].SectionID != copied[0].ID {
		t.Fatalf("expected copied translation attached to the new section, got %+v", copied[0].Translations)
	}

	reordered, err := sectionSvc.Reorder(ctx, sections.ReorderSectionsRequest{
		PageID: page.ID,
		Items:  []sections.SortOrderInput{{ID: hero.ID, SortOrder: 3}, {ID: rich.ID, SortOrder: 2}},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if reordered[0].ID != rich.ID {
		t.Fatalf("expected rich first after reorder, got %+v", reordered)
	}

	updated, err := sectionSvc.Update(ctx, sections.UpdateSectionRequest{
		ID:           hero.ID,
		Translations: []sections.TranslationInput{{Locale: "ko", Content: map[string]any{"heading": "안녕"}}},
	})
	if err != nil {
		t.Fatalf("replace section translations: %v", err)
	}
	if len(updated.Translations) != 1 || updated.Translations[0].Locale != "ko" {
		t.Fatalf("expected only ko translation, got %+v", updated.Translations)
	}

	if _, err := pageSvc.Update(ctx, pages.UpdatePageRequest{ID: duplicate.ID, Key: strPtr("home")}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected key conflict, got %v", err)
	}

	for _, id := range []int64{hero.ID, rich.ID} {
		if err := sectionSvc.Delete(ctx, id); err != nil {
			t.Fatalf("delete section %d: %v", id, err)
		}
	}
	if err := pageSvc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}
	if _, err := pageSvc.Get(ctx, page.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected deleted page, got %v", err)
	}
}

func TestBunRepositoryListAndEnabled(t *testing.T) {
	db := testsupport.NewMigratedDB(t)
	ctx := context.Background()
	repo := pages.NewBunRepository(db)
	svc := pages.NewService(repo)

	for _, item := range []struct {
		key     string
		enabled bool
	}{{"zeta", true}, {"alpha", true}, {"mid", false}} {
		if _, err := svc.Create(ctx, pages.CreatePageRequest{Key: item.key, Slug: "/" + item.key, IsEnabled: boolPtr(item.enabled)}); err != nil {
			t.Fatalf("create %s: %v", item.key, err)
		}
	}

	enabled, err := repo.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	if len(enabled) != 2 || enabled[0].Key != "alpha" || enabled[1].Key != "zeta" {
		t.Fatalf("unexpected enabled pages %+v", enabled)
	}

	result, err := repo.List(ctx, domain.ListOptions{Limit: 2, SortBy: "key"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 3 || len(result.Items) != 2 || result.Items[0].Key != "alpha" || result.Items[1].Key != "mid" {
		t.Fatalf("unexpected list result %+v", result)
	}

	exists, err := repo.Exists(ctx, 999)
	if err != nil || exists {
		t.Fatalf("expected missing page, got %v %v", exists, err)
	}
}
