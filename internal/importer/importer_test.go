package importer_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/lumenworks/sectioncms/internal/content"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/importer"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
)

const aboutEN = `---
title: About us
seo_title: About | Lumen
---
# Who we are

We build **durable** websites.
`

const aboutKO = `---
title: 회사 소개
---
우리는 웹사이트를 만듭니다.
`

type fixture struct {
	pages    pages.Service
	sections sections.Service
	resolver content.Resolver
	importer *importer.Importer
}

func newFixture() fixture {
	sectionRepo := sections.NewMemoryRepository()
	pageRepo := pages.NewMemoryRepository(sectionRepo)
	pageSvc := pages.NewService(pageRepo)
	sectionSvc := sections.NewService(sectionRepo, pageRepo)
	return fixture{
		pages:    pageSvc,
		sections: sectionSvc,
		resolver: content.NewResolver(pageRepo, sectionRepo),
		importer: importer.New(pageSvc, sectionSvc),
	}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en/about.md":     {Data: []byte(aboutEN)},
		"ko/about.md":     {Data: []byte(aboutKO)},
		"contact.ko.md":   {Data: []byte("---\ntitle: 연락처\nslug: contact-us\ndraft: true\n---\n전화 주세요.\n")},
		"home.md":         {Data: []byte("---\nkey: home\ntitle: Home\n---\nWelcome.\n")},
		"notes.txt":       {Data: []byte("ignored")},
		"drafts/plain.md": {Data: []byte("no frontmatter at all")},
	}
}

func TestLoaderDetectsLocalesAndKeys(t *testing.T) {
	loader := importer.NewLoader(testFS(), importer.LoaderConfig{DefaultLocale: "en", Locales: []string{"en", "ko"}})

	docs, err := loader.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string][2]string{
		"contact.ko.md":   {"contact", "ko"},
		"drafts/plain.md": {"plain", "en"},
		"en/about.md":     {"about", "en"},
		"home.md":         {"home", "en"},
		"ko/about.md":     {"about", "ko"},
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for _, doc := range docs {
		expected, ok := want[doc.Path]
		if !ok || doc.Key != expected[0] || doc.Locale != expected[1] {
			t.Fatalf("unexpected document %s key=%s locale=%s", doc.Path, doc.Key, doc.Locale)
		}
	}
	if docs[0].Path != "contact.ko.md" {
		t.Fatalf("expected documents sorted by path, got %s first", docs[0].Path)
	}
}

func TestParseDocumentSlugs(t *testing.T) {
	doc, err := importer.ParseDocument("home.md", "en", []byte("---\ntitle: Home\n---\nHi"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.PageSlug() != "/" || doc.Body != "Hi" || doc.FrontMatter.Title != "Home" {
		t.Fatalf("unexpected document %+v", doc)
	}
	doc, _ = importer.ParseDocument("x.md", "en", []byte("---\nslug: services/web\n---\n"))
	if doc.PageSlug() != "/services/web" {
		t.Fatalf("expected leading slash, got %s", doc.PageSlug())
	}
}

func TestImportCreatesPagesWithRichSections(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	loader := importer.NewLoader(testFS(), importer.LoaderConfig{DefaultLocale: "en", Locales: []string{"en", "ko"}})
	docs, err := loader.LoadDirectory(ctx, ".")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	result, err := f.importer.ImportDocuments(ctx, docs, importer.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.PagesCreated) != 4 || result.SectionsCreated != 4 || len(result.Failures) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	view, err := f.resolver.GetPageContent(ctx, "about", "ko")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if view.Page.Title == nil || *view.Page.Title != "회사 소개" || len(view.Sections) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Sections[0].Type != sections.TypeRich || view.Sections[0].Content["body"] != "우리는 웹사이트를 만듭니다." {
		t.Fatalf("unexpected section %+v", view.Sections[0])
	}

	contact, err := f.pages.GetByKey(ctx, "contact")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if contact.IsEnabled || contact.Slug != "/contact-us" {
		t.Fatalf("expected draft page at /contact-us, got %+v", contact)
	}

	results, err := f.resolver.Search(ctx, content.SearchQuery{Query: "durable", Locale: "en"})
	if err != nil || len(results) != 1 || results[0].PageKey != "about" {
		t.Fatalf("expected imported body to be searchable, got %+v %v", results, err)
	}
}

func TestReimportUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	first, _ := importer.ParseDocument("about.md", "en", []byte(aboutEN))
	if _, err := f.importer.ImportDocuments(ctx, []*importer.Document{first}, importer.Options{}); err != nil {
		t.Fatalf("import: %v", err)
	}

	changed, _ := importer.ParseDocument("about.md", "en", []byte("---\ntitle: About\n---\nNew copy."))
	dry, err := f.importer.ImportDocuments(ctx, []*importer.Document{changed}, importer.Options{DryRun: true})
	if err != nil || len(dry.PagesUpdated) != 1 || dry.SectionsUpdated != 1 {
		t.Fatalf("unexpected dry run %+v %v", dry, err)
	}
	view, _ := f.resolver.GetPageContent(ctx, "about", "en")
	if *view.Page.Title != "About us" {
		t.Fatalf("dry run must not write, got title %q", *view.Page.Title)
	}

	result, err := f.importer.ImportDocuments(ctx, []*importer.Document{changed}, importer.Options{})
	if err != nil || result.SectionsUpdated != 1 || result.SectionsCreated != 0 {
		t.Fatalf("unexpected result %+v %v", result, err)
	}
	page, _ := f.pages.GetByKey(ctx, "about")
	list, _ := f.sections.ListByPage(ctx, page.ID)
	if len(list) != 1 || list[0].Translation("en").Content["body"] != "New copy." {
		t.Fatalf("expected rich section updated in place, got %+v", list)
	}
}

func TestImportReportsDuplicateLocales(t *testing.T) {
	f := newFixture()
	a, _ := importer.ParseDocument("en/about.md", "en", []byte(aboutEN))
	b, _ := importer.ParseDocument("about.en.md", "en", []byte(aboutEN))
	home, _ := importer.ParseDocument("home.md", "en", []byte("Welcome"))

	result, err := f.importer.ImportDocuments(context.Background(), []*importer.Document{a, b, home}, importer.Options{})
	if !errors.Is(err, importer.ErrDuplicateLocale) {
		t.Fatalf("expected duplicate locale error, got %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].Key != "about" || len(result.PagesCreated) != 1 {
		t.Fatalf("expected other groups to import, got %+v", result)
	}
}

type failingSections struct {
	sections.Service
}

func (failingSections) Create(context.Context, sections.CreateSectionRequest) (*sections.Section, error) {
	return nil, errors.New("section store unavailable")
}

func TestImportRollsBackPageWhenSectionFails(t *testing.T) {
	f := newFixture()
	imp := importer.New(f.pages, failingSections{Service: f.sections})
	home, err := importer.ParseDocument("home.md", "en", []byte("---\ntitle: Home\n---\nWelcome.\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	result, err := imp.ImportDocuments(context.Background(), []*importer.Document{home}, importer.Options{})
	if err == nil {
		t.Fatal("expected section failure to surface")
	}
	if len(result.Failures) != 1 || result.Failures[0].Key != "home" || len(result.PagesCreated) != 0 || result.SectionsCreated != 0 {
		t.Fatalf("expected home reported as failed only, got %+v", result)
	}
	if _, err := f.pages.GetByKey(context.Background(), "home"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected page rolled back, got %v", err)
	}
}
