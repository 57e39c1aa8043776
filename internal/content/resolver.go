package content

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/lumenworks/sectioncms/internal/cache"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
	searchScore        = 1.0
)

// PageReader is the subset of the page store used by public reads.
type PageReader interface {
	GetByKey(ctx context.Context, key string) (*pages.Page, error)
	ListEnabled(ctx context.Context) ([]*pages.Page, error)
}

// SectionReader is the subset of the section store used by public reads.
type SectionReader interface {
	ListByPage(ctx context.Context, pageID int64, enabledOnly bool) ([]*sections.Section, error)
}

// Resolver serves the public, locale-resolved views. Unknown pages and missing
// translations degrade to fallback responses; only store failures are errors.
type Resolver interface {
	GetPageContent(ctx context.Context, pageKey, locale string) (*PageContent, error)
	Search(ctx context.Context, query SearchQuery) ([]SearchResult, error)
	Sitemap(ctx context.Context) ([]SitemapEntry, error)
}

type ResolverOption func(*resolver)

// WithResponseCache caches resolved responses until the next admin write.
func WithResponseCache(c *cache.ResponseCache) ResolverOption {
	return func(r *resolver) {
		r.cache = c
	}
}

// WithRegistry sets the registry used to decode section content for search.
func WithRegistry(registry *sections.Registry) ResolverOption {
	return func(r *resolver) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithSearchLimits overrides the default and maximum number of search results.
func WithSearchLimits(defaultLimit, maxLimit int) ResolverOption {
	return func(r *resolver) {
		if defaultLimit > 0 {
			r.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			r.maxLimit = maxLimit
		}
	}
}

func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type resolver struct {
	pages        PageReader
	sections     SectionReader
	registry     *sections.Registry
	cache        *cache.ResponseCache
	logger       interfaces.Logger
	defaultLimit int
	maxLimit     int
}

func NewResolver(pageStore PageReader, sectionStore SectionReader, opts ...ResolverOption) Resolver {
	r := &resolver{
		pages:        pageStore,
		sections:     sectionStore,
		registry:     sections.DefaultRegistry(),
		logger:       logging.NoOp(),
		defaultLimit: DefaultSearchLimit,
		maxLimit:     MaxSearchLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *resolver) GetPageContent(ctx context.Context, pageKey, locale string) (*PageContent, error) {
	var cached PageContent
	if ok := r.load(ctx, cache.ScopeContent, &cached, pageKey, locale); ok {
		return &cached, nil
	}

	page, err := r.enabledPage(ctx, pageKey)
	if err != nil {
		return nil, err
	}
	if page == nil {
		r.log(ctx).Debug("content.page.fallback", "page_key", pageKey, "locale", locale)
		return &PageContent{Page: PageNode{Key: pageKey, Fallback: true}, Sections: []SectionNode{}}, nil
	}

	records, err := r.sections.ListByPage(ctx, page.ID, true)
	if err != nil {
		return nil, err
	}
	sections.SortSections(records)

	result := &PageContent{
		Page:     pageNode(page, locale),
		Sections: make([]SectionNode, 0, len(records)),
	}
	for _, record := range records {
		if !record.IsEnabled {
			continue
		}
		node := SectionNode{
			ID:        record.ID,
			Type:      record.Type,
			IsEnabled: record.IsEnabled,
			SortOrder: record.SortOrder,
			Config:    record.Config,
		}
		if tr := record.Translation(locale); tr != nil && tr.Content != nil {
			node.Content = tr.Content
		} else {
			node.Content = map[string]any{}
			node.Fallback = true
		}
		result.Sections = append(result.Sections, node)
	}

	r.save(ctx, cache.ScopeContent, result, pageKey, locale)
	return result, nil
}

func (r *resolver) Search(ctx context.Context, query SearchQuery) ([]SearchResult, error) {
	term := strings.TrimSpace(query.Query)
	if term == "" {
		return []SearchResult{}, nil
	}
	limit := query.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}
	if limit > r.maxLimit {
		limit = r.maxLimit
	}

	cacheParts := []string{strings.ToLower(term), query.Locale, query.PageKey, strconv.Itoa(limit)}
	var cached []SearchResult
	if ok := r.load(ctx, cache.ScopeSearch, &cached, cacheParts...); ok {
		return cached, nil
	}

	candidates, err := r.searchPages(ctx, query.PageKey)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0)
	for _, page := range candidates {
		records, err := r.sections.ListByPage(ctx, page.ID, true)
		if err != nil {
			return nil, err
		}
		sections.SortSections(records)
		title := pageNode(page, query.Locale).Title
		for _, record := range records {
			tr := record.Translation(query.Locale)
			if !record.IsEnabled || tr == nil {
				continue
			}
			excerpt, ok := matchExcerpt(r.sectionText(record.Type, tr.Content), term)
			if !ok {
				continue
			}
			results = append(results, SearchResult{
				PageKey:     page.Key,
				PageSlug:    page.Slug,
				PageTitle:   title,
				SectionID:   record.ID,
				SectionType: record.Type,
				Excerpt:     excerpt,
				Score:       searchScore,
			})
			if len(results) >= limit {
				r.save(ctx, cache.ScopeSearch, results, cacheParts...)
				return results, nil
			}
		}
	}
	r.save(ctx, cache.ScopeSearch, results, cacheParts...)
	return results, nil
}

func (r *resolver) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	var cached []SitemapEntry
	if ok := r.load(ctx, cache.ScopeSitemap, &cached); ok {
		return cached, nil
	}
	records, err := r.pages.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]SitemapEntry, 0, len(records))
	for _, page := range records {
		entries = append(entries, SitemapEntry{Key: page.Key, Slug: page.Slug, UpdatedAt: page.UpdatedAt})
	}
	r.save(ctx, cache.ScopeSitemap, entries)
	return entries, nil
}

// enabledPage returns nil without error when the page is unknown or disabled.
func (r *resolver) enabledPage(ctx context.Context, key string) (*pages.Page, error) {
	page, err := r.pages.GetByKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !page.IsEnabled {
		return nil, nil
	}
	return page, nil
}

func (r *resolver) searchPages(ctx context.Context, pageKey string) ([]*pages.Page, error) {
	if strings.TrimSpace(pageKey) == "" {
		return r.pages.ListEnabled(ctx)
	}
	page, err := r.enabledPage(ctx, pageKey)
	if err != nil || page == nil {
		return nil, err
	}
	return []*pages.Page{page}, nil
}

// sectionText flattens a section's content into one searchable string. Content
// that no longer matches its schema is flattened generically.
func (r *resolver) sectionText(sectionType sections.Type, content map[string]any) string {
	decoded, err := r.registry.Decode(sectionType, content)
	if err != nil {
		return strings.Join(sections.FlattenText(content), " ")
	}
	return strings.Join(decoded.Text(), " ")
}

func (r *resolver) load(ctx context.Context, scope cache.Scope, target any, parts ...string) bool {
	ok, err := r.cache.Load(ctx, scope, target, parts...)
	if err != nil {
		r.log(ctx).Warn("content.cache.load_failed", "scope", string(scope), "error", err)
		return false
	}
	return ok
}

func (r *resolver) save(ctx context.Context, scope cache.Scope, value any, parts ...string) {
	if err := r.cache.Save(ctx, scope, value, parts...); err != nil {
		r.log(ctx).Warn("content.cache.save_failed", "scope", string(scope), "error", err)
	}
}

func (r *resolver) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, r.logger)
}

func pageNode(page *pages.Page, locale string) PageNode {
	node := PageNode{Key: page.Key}
	if tr := page.Translation(locale); tr != nil && tr.Title != nil {
		title := *tr.Title
		node.Title = &title
		return node
	}
	node.Fallback = true
	return node
}
