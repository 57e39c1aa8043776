package sections_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/internal/validation"
)

type stubPages map[int64]bool

func (s stubPages) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

type recordingInvalidator struct {
	calls [][]cache.Scope
}

func (r *recordingInvalidator) Invalidate(_ context.Context, scopes ...cache.Scope) error {
	r.calls = append(r.calls, scopes)
	return nil
}

func newSectionService(t *testing.T, opts ...sections.ServiceOption) (sections.Service, *sections.MemoryRepository) {
	t.Helper()
	repo := sections.NewMemoryRepository()
	opts = append([]sections.ServiceOption{sections.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})}, opts...)
	return sections.NewService(repo, stubPages{1: true, 2: true}, opts...), repo
}

func heroInput(locale, heading string) sections.TranslationInput {
	return sections.TranslationInput{Locale: locale, Content: map[string]any{"heading": heading}}
}

func TestSectionServiceCreateAppendsAndDefaults(t *testing.T) {
	ctx := context.Background()
	invalidator := &recordingInvalidator{}
	svc, _ := newSectionService(t, sections.WithCache(invalidator))

	first, err := svc.Create(ctx, sections.CreateSectionRequest{
		PageID:       1,
		Type:         sections.TypeHero,
		Translations: []sections.TranslationInput{heroInput("en", "Hello"), heroInput("ko", "안녕하세요")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !first.IsEnabled || first.SortOrder != 0 {
		t.Fatalf("expected enabled section at sort order 0, got %+v", first)
	}
	if len(first.Translations) != 2 || first.Translation("ko") == nil {
		t.Fatalf("expected two translations, got %+v", first.Translations)
	}
	if !first.CreatedAt.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created at %v", first.CreatedAt)
	}

	order := 7
	if _, err := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeRich, SortOrder: &order}); err != nil {
		t.Fatalf("create explicit order: %v", err)
	}
	third, err := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeContact})
	if err != nil {
		t.Fatalf("create third: %v", err)
	}
	if third.SortOrder != 8 {
		t.Fatalf("expected appended sort order 8, got %d", third.SortOrder)
	}
	if len(invalidator.calls) != 3 {
		t.Fatalf("expected cache invalidated per create, got %d calls", len(invalidator.calls))
	}
}

func TestSectionServiceCreateCollectsContentIssues(t *testing.T) {
	svc, repo := newSectionService(t)

	_, err := svc.Create(context.Background(), sections.CreateSectionRequest{
		PageID: 1,
		Type:   sections.TypeServices,
		Translations: []sections.TranslationInput{
			{Locale: "en", Content: map[string]any{"items": []any{map[string]any{"title": "Design"}}}},
			{Locale: "ko", Content: map[string]any{}},
			{Locale: "ja", Content: map[string]any{"ctas": "nope", "items": []any{}}},
		},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	paths := map[string]bool{}
	for _, issue := range validation.Issues(err) {
		paths[issue.Path] = true
	}
	if !paths["/translations/1/content"] || !paths["/translations/2/content/ctas"] {
		t.Fatalf("expected issues for both failing translations, got %+v", validation.Issues(err))
	}
	if count, _ := repo.CountByPage(context.Background(), 1); count != 0 {
		t.Fatalf("expected nothing stored, got %d", count)
	}
}

func TestSectionServiceCreateRejectsBadRequests(t *testing.T) {
	svc, _ := newSectionService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  sections.CreateSectionRequest
		path string
	}{
		{"missing page", sections.CreateSectionRequest{Type: sections.TypeHero}, "/pageId"},
		{"unknown type", sections.CreateSectionRequest{PageID: 1, Type: "carousel"}, "/type"},
		{"bad locale", sections.CreateSectionRequest{PageID: 1, Type: sections.TypeHero, Translations: []sections.TranslationInput{{Locale: "EN"}}}, "/translations/0/locale"},
		{"duplicate locale", sections.CreateSectionRequest{PageID: 1, Type: sections.TypeHero, Translations: []sections.TranslationInput{heroInput("en", "a"), heroInput("en", "b")}}, "/translations"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			issues := validation.Issues(err)
			if len(issues) == 0 || issues[0].Path != tc.path {
				t.Fatalf("expected issue at %s, got %v", tc.path, err)
			}
		})
	}

	_, err := svc.Create(ctx, sections.CreateSectionRequest{PageID: 99, Type: sections.TypeHero})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected page not found, got %v", err)
	}
}

func TestSectionServiceUpdateKeepsOrReplacesTranslations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSectionService(t)

	created, err := svc.Create(ctx, sections.CreateSectionRequest{
		PageID:       1,
		Type:         sections.TypeHero,
		Translations: []sections.TranslationInput{heroInput("en", "Hello"), heroInput("ko", "안녕")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	disabled := false
	updated, err := svc.Update(ctx, sections.UpdateSectionRequest{ID: created.ID, IsEnabled: &disabled})
	if err != nil {
		t.Fatalf("update flags: %v", err)
	}
	if updated.IsEnabled || len(updated.Translations) != 2 {
		t.Fatalf("expected disabled section keeping translations, got %+v", updated)
	}

	replaced, err := svc.Update(ctx, sections.UpdateSectionRequest{
		ID:           created.ID,
		Translations: []sections.TranslationInput{heroInput("en", "Welcome")},
	})
	if err != nil {
		t.Fatalf("replace translations: %v", err)
	}
	if len(replaced.Translations) != 1 || replaced.Translation("ko") != nil {
		t.Fatalf("expected ko translation removed, got %+v", replaced.Translations)
	}
	if got := replaced.Translation("en").Content["heading"]; got != "Welcome" {
		t.Fatalf("expected replaced heading, got %v", got)
	}

	cleared, err := svc.Update(ctx, sections.UpdateSectionRequest{ID: created.ID, Translations: []sections.TranslationInput{}})
	if err != nil {
		t.Fatalf("clear translations: %v", err)
	}
	if len(cleared.Translations) != 0 {
		t.Fatalf("expected no translations, got %d", len(cleared.Translations))
	}
}

func TestSectionServiceUpdateKeepsReplacesOrClearsConfig(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSectionService(t)

	created, err := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeRich, Config: map[string]any{"theme": "dark"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var keep sections.UpdateSectionRequest
	if err := json.Unmarshal([]byte(`{"isEnabled": false}`), &keep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	keep.ID = created.ID
	kept, err := svc.Update(ctx, keep)
	if err != nil || kept.Config["theme"] != "dark" {
		t.Fatalf("expected config untouched, got %v %v", kept.Config, err)
	}

	var reset sections.UpdateSectionRequest
	if err := json.Unmarshal([]byte(`{"config": null}`), &reset); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reset.ClearConfig {
		t.Fatal("expected explicit null to request a config reset")
	}
	reset.ID = created.ID
	nulled, err := svc.Update(ctx, reset)
	if err != nil || nulled.Config != nil {
		t.Fatalf("expected null config, got %v %v", nulled.Config, err)
	}

	_, err = svc.Update(ctx, sections.UpdateSectionRequest{ID: created.ID, ClearConfig: true, Config: map[string]any{"theme": "light"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for clear plus config, got %v", err)
	}
}

func TestSectionServiceUpdateTypeChangeRevalidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSectionService(t)

	created, err := svc.Create(ctx, sections.CreateSectionRequest{
		PageID:       1,
		Type:         sections.TypeHero,
		Translations: []sections.TranslationInput{heroInput("en", "Hello")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newsType := sections.TypeNews
	_, err = svc.Update(ctx, sections.UpdateSectionRequest{ID: created.ID, Type: &newsType})
	issues := validation.Issues(err)
	if len(issues) != 1 || issues[0].Path != "/translations/0/content" {
		t.Fatalf("expected stored content to fail news schema, got %v", err)
	}

	richType := sections.TypeRich
	changed, err := svc.Update(ctx, sections.UpdateSectionRequest{ID: created.ID, Type: &richType})
	if err != nil {
		t.Fatalf("change to rich: %v", err)
	}
	if changed.Type != sections.TypeRich {
		t.Fatalf("expected rich type, got %s", changed.Type)
	}

	if _, err := svc.Update(ctx, sections.UpdateSectionRequest{ID: 404}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSectionServiceReorder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSectionService(t)

	a, _ := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeHero})
	b, _ := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeRich})
	other, _ := svc.Create(ctx, sections.CreateSectionRequest{PageID: 2, Type: sections.TypeRich})

	ordered, err := svc.Reorder(ctx, sections.ReorderSectionsRequest{
		PageID: 1,
		Items:  []sections.SortOrderInput{{ID: a.ID, SortOrder: 5}, {ID: b.ID, SortOrder: 1}},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(ordered) != 2 || ordered[0].ID != b.ID || ordered[1].ID != a.ID {
		t.Fatalf("unexpected order %+v", ordered)
	}

	_, err = svc.Reorder(ctx, sections.ReorderSectionsRequest{
		PageID: 1,
		Items:  []sections.SortOrderInput{{ID: other.ID, SortOrder: 0}},
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected section from another page to be rejected, got %v", err)
	}

	_, err = svc.Reorder(ctx, sections.ReorderSectionsRequest{
		PageID: 1,
		Items:  []sections.SortOrderInput{{ID: a.ID}, {ID: a.ID, SortOrder: 1}},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected duplicate ids to fail validation, got %v", err)
	}
}

func TestSectionServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSectionService(t)

	created, _ := svc.Create(ctx, sections.CreateSectionRequest{PageID: 1, Type: sections.TypeHero, Translations: []sections.TranslationInput{heroInput("en", "x")}})
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected deleted section, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}

func TestSectionServiceListByPageRequiresPage(t *testing.T) {
	svc, _ := newSectionService(t)
	if _, err := svc.ListByPage(context.Background(), 42); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unknown page, got %v", err)
	}
	list, err := svc.ListByPage(context.Background(), 2)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}
}
