package importer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

var (
	ErrKeyMissing      = errors.New("markdown importer: page key could not be determined")
	ErrLocaleMissing   = errors.New("markdown importer: locale could not be determined")
	ErrDuplicateLocale = errors.New("markdown importer: documents share a page key and locale")
	ErrPartialImport   = errors.New("markdown importer: page imported partially")
)

// Options tune a single import run.
type Options struct {
	// DryRun reports what would change without writing.
	DryRun bool
}

// Failure records a page key that could not be imported.
type Failure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// Result summarises an import run.
type Result struct {
	PagesCreated    []string  `json:"pagesCreated"`
	PagesUpdated    []string  `json:"pagesUpdated"`
	SectionsCreated int       `json:"sectionsCreated"`
	SectionsUpdated int       `json:"sectionsUpdated"`
	Failures        []Failure `json:"failures"`
}

type Option func(*Importer)

func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Importer turns markdown documents into pages, each owning one rich section that
// carries the document body per locale.
type Importer struct {
	pages    pages.Service
	sections sections.Service
	logger   interfaces.Logger
}

func New(pageService pages.Service, sectionService sections.Service, opts ...Option) *Importer {
	i := &Importer{
		pages:    pageService,
		sections: sectionService,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportDocuments groups docs by page key and upserts one page per group. Groups
// are processed independently; every failure is reported in the result and the
// joined error.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*Document, opts Options) (*Result, error) {
	result := &Result{
		PagesCreated: []string{},
		PagesUpdated: []string{},
		Failures:     []Failure{},
	}

	groups := map[string][]*Document{}
	keys := make([]string, 0)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if _, seen := groups[doc.Key]; !seen {
			keys = append(keys, doc.Key)
		}
		groups[doc.Key] = append(groups[doc.Key], doc)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		group := groups[key]
		slices.SortFunc(group, func(a, b *Document) int { return strings.Compare(a.Locale, b.Locale) })
		if err := i.applyGroup(ctx, key, group, opts, result); err != nil {
			result.Failures = append(result.Failures, Failure{Key: key, Error: err.Error()})
			errs = append(errs, fmt.Errorf("import %s: %w", key, err))
			logging.WithImportContext(i.logger, group[0].Path, "", "failed").Error("importer.page.failed", "page_key", key, "error", err)
		}
	}
	return result, errors.Join(errs...)
}

func (i *Importer) applyGroup(ctx context.Context, key string, docs []*Document, opts Options, result *Result) error {
	pageTranslations := make([]pages.TranslationInput, 0, len(docs))
	sectionTranslations := make([]sections.TranslationInput, 0, len(docs))
	enabled := true
	slugValue := docs[0].PageSlug()
	var config map[string]any

	for idx, doc := range docs {
		if idx > 0 && docs[idx-1].Locale == doc.Locale {
			return fmt.Errorf("%w: %s and %s", ErrDuplicateLocale, docs[idx-1].Path, doc.Path)
		}
		if doc.FrontMatter.Draft {
			enabled = false
		}
		if strings.TrimSpace(doc.FrontMatter.Slug) != "" {
			slugValue = doc.PageSlug()
		}
		if config == nil && doc.FrontMatter.Config != nil {
			config = doc.FrontMatter.Config
		}
		pageTranslations = append(pageTranslations, pages.TranslationInput{
			Locale:   doc.Locale,
			Title:    optional(doc.FrontMatter.Title),
			SEOTitle: optional(doc.FrontMatter.SEOTitle),
			SEODesc:  optional(doc.FrontMatter.SEODesc),
		})
		sectionTranslations = append(sectionTranslations, sections.TranslationInput{
			Locale:  doc.Locale,
			Content: map[string]any{"body": doc.Body},
		})
	}

	existing, err := i.pages.GetByKey(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return i.create(ctx, key, slugValue, enabled, config, pageTranslations, sectionTranslations, opts, result)
	case err != nil:
		return err
	}

	logger := logging.WithImportContext(i.logger, docs[0].Path, "", "update")
	rich, err := i.richSection(ctx, existing.ID)
	if err != nil {
		return err
	}
	if opts.DryRun {
		result.PagesUpdated = append(result.PagesUpdated, key)
		if rich == nil {
			result.SectionsCreated++
		} else {
			result.SectionsUpdated++
		}
		return nil
	}

	if _, err := i.pages.Update(ctx, pages.UpdatePageRequest{
		ID:           existing.ID,
		Slug:         &slugValue,
		IsEnabled:    &enabled,
		Translations: pageTranslations,
	}); err != nil {
		return err
	}
	result.PagesUpdated = append(result.PagesUpdated, key)

	if rich == nil {
		if _, err := i.sections.Create(ctx, sections.CreateSectionRequest{
			PageID:       existing.ID,
			Type:         sections.TypeRich,
			Config:       config,
			Translations: sectionTranslations,
		}); err != nil {
			return err
		}
		result.SectionsCreated++
	} else {
		if _, err := i.sections.Update(ctx, sections.UpdateSectionRequest{
			ID:           rich.ID,
			Config:       config,
			Translations: sectionTranslations,
		}); err != nil {
			return err
		}
		result.SectionsUpdated++
	}
	logger.Info("importer.page.updated", "page_key", key, "page_id", existing.ID, "locales", len(docs))
	return nil
}

func (i *Importer) create(ctx context.Context, key, slugValue string, enabled bool, config map[string]any, pageTranslations []pages.TranslationInput, sectionTranslations []sections.TranslationInput, opts Options, result *Result) error {
	if opts.DryRun {
		result.PagesCreated = append(result.PagesCreated, key)
		result.SectionsCreated++
		return nil
	}
	page, err := i.pages.Create(ctx, pages.CreatePageRequest{
		Key:          key,
		Slug:         slugValue,
		IsEnabled:    &enabled,
		Translations: pageTranslations,
	})
	if err != nil {
		return err
	}

	if _, err := i.sections.Create(ctx, sections.CreateSectionRequest{
		PageID:       page.ID,
		Type:         sections.TypeRich,
		Config:       config,
		Translations: sectionTranslations,
	}); err != nil {
		// the new page has no sections, so Delete is not blocked
		if rollbackErr := i.pages.Delete(ctx, page.ID); rollbackErr != nil {
			i.logger.Error("importer.page.rollback_failed", "page_key", key, "page_id", page.ID, "error", rollbackErr)
			return errors.Join(err, fmt.Errorf("%w: page %q left without its rich section: %v", ErrPartialImport, key, rollbackErr))
		}
		i.logger.Warn("importer.page.rolled_back", "page_key", key, "error", err)
		return err
	}
	result.PagesCreated = append(result.PagesCreated, key)
	result.SectionsCreated++
	i.logger.Info("importer.page.created", "page_key", key, "page_id", page.ID, "locales", len(pageTranslations))
	return nil
}

// richSection returns the first rich section of the page, the one the importer owns.
func (i *Importer) richSection(ctx context.Context, pageID int64) (*sections.Section, error) {
	records, err := i.sections.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	sections.SortSections(records)
	for _, record := range records {
		if record.Type == sections.TypeRich {
			return record, nil
		}
	}
	return nil, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
