package content

import (
	"time"

	"github.com/lumenworks/sectioncms/internal/sections"
)

// PageContent is the public, locale-resolved view of one page.
type PageContent struct {
	Page     PageNode      `json:"page"`
	Sections []SectionNode `json:"sections"`
}

// PageNode identifies the page. Fallback is set when the page is unknown or has no
// title in the requested locale.
type PageNode struct {
	Key      string  `json:"key"`
	Title    *string `json:"title,omitempty"`
	Fallback bool    `json:"_fallback,omitempty"`
}

// SectionNode is one enabled section with the content for the requested locale.
// Missing translations resolve to an empty object with Fallback set.
type SectionNode struct {
	ID        int64          `json:"id"`
	Type      sections.Type  `json:"type"`
	IsEnabled bool           `json:"isEnabled"`
	SortOrder int            `json:"sortOrder"`
	Config    map[string]any `json:"config"`
	Content   map[string]any `json:"content"`
	Fallback  bool           `json:"_fallback,omitempty"`
}

// SearchQuery filters the public search. An empty PageKey searches every enabled page.
type SearchQuery struct {
	Query   string
	Locale  string
	PageKey string
	Limit   int
}

// SearchResult is a section whose text contains the query.
type SearchResult struct {
	PageKey     string        `json:"pageKey"`
	PageSlug    string        `json:"pageSlug"`
	PageTitle   *string       `json:"pageTitle,omitempty"`
	SectionID   int64         `json:"sectionId"`
	SectionType sections.Type `json:"sectionType"`
	Excerpt     string        `json:"excerpt"`
	Score       float64       `json:"score"`
}

// SitemapEntry lists one enabled page.
type SitemapEntry struct {
	Key       string    `json:"key"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}
