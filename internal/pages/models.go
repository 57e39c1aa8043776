package pages

import (
	"time"

	"github.com/uptrace/bun"
)

// Page is an addressable document composed of ordered sections.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID           int64              `bun:"id,pk,autoincrement" json:"id"`
	Key          string             `bun:"key,notnull" json:"key"`
	Slug         string             `bun:"slug,notnull" json:"slug"`
	IsEnabled    bool               `bun:"is_enabled,notnull" json:"isEnabled"`
	CreatedAt    time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
	Translations []*PageTranslation `bun:"rel:has-many,join:id=page_id" json:"translations"`
}

// PageTranslation holds the localized title and SEO metadata of a page.
type PageTranslation struct {
	bun.BaseModel `bun:"table:page_translations,alias:pt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PageID    int64     `bun:"page_id,notnull" json:"pageId"`
	Locale    string    `bun:"locale,notnull" json:"locale"`
	Title     *string   `bun:"title" json:"title,omitempty"`
	SEOTitle  *string   `bun:"seo_title" json:"seoTitle,omitempty"`
	SEODesc   *string   `bun:"seo_desc" json:"seoDesc,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Translation returns the translation for locale, or nil.
func (p *Page) Translation(locale string) *PageTranslation {
	if p == nil {
		return nil
	}
	for _, tr := range p.Translations {
		if tr != nil && tr.Locale == locale {
			return tr
		}
	}
	return nil
}

func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.Translations = cloneTranslations(p.Translations)
	return &cloned
}

func cloneTranslations(src []*PageTranslation) []*PageTranslation {
	if src == nil {
		return nil
	}
	out := make([]*PageTranslation, 0, len(src))
	for _, tr := range src {
		if tr == nil {
			continue
		}
		cloned := *tr
		cloned.Title = cloneString(tr.Title)
		cloned.SEOTitle = cloneString(tr.SEOTitle)
		cloned.SEODesc = cloneString(tr.SEODesc)
		out = append(out, &cloned)
	}
	return out
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
