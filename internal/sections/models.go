package sections

import (
	"time"

	"github.com/uptrace/bun"
)

// Section is a typed, orderable content block owned by a page.
type Section struct {
	bun.BaseModel `bun:"table:sections,alias:s"`

	ID           int64                 `bun:"id,pk,autoincrement" json:"id"`
	PageID       int64                 `bun:"page_id,notnull" json:"pageId"`
	Type         Type                  `bun:"type,notnull" json:"type"`
	IsEnabled    bool                  `bun:"is_enabled,notnull" json:"isEnabled"`
	SortOrder    int                   `bun:"sort_order,notnull" json:"sortOrder"`
	Config       map[string]any        `bun:"config,type:jsonb" json:"config"`
	CreatedAt    time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
	Translations []*SectionTranslation `bun:"rel:has-many,join:id=section_id" json:"translations"`
}

// SectionTranslation stores the content of a section for one locale.
type SectionTranslation struct {
	bun.BaseModel `bun:"table:section_translations,alias:st"`

	ID        int64          `bun:"id,pk,autoincrement" json:"id"`
	SectionID int64          `bun:"section_id,notnull" json:"sectionId"`
	Locale    string         `bun:"locale,notnull" json:"locale"`
	Content   map[string]any `bun:"content,type:jsonb,notnull" json:"content"`
	CreatedAt time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Translation returns the translation for locale, or nil.
func (s *Section) Translation(locale string) *SectionTranslation {
	if s == nil {
		return nil
	}
	for _, tr := range s.Translations {
		if tr != nil && tr.Locale == locale {
			return tr
		}
	}
	return nil
}

// Clone returns a deep copy of the section including its translations.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	cloned := *s
	cloned.Config = cloneMap(s.Config)
	cloned.Translations = cloneTranslations(s.Translations)
	return &cloned
}

func cloneTranslations(src []*SectionTranslation) []*SectionTranslation {
	if src == nil {
		return nil
	}
	out := make([]*SectionTranslation, 0, len(src))
	for _, tr := range src {
		if tr == nil {
			continue
		}
		cloned := *tr
		cloned.Content = cloneMap(tr.Content)
		out = append(out, &cloned)
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
