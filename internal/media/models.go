package media

import (
	"time"

	"github.com/uptrace/bun"
)

// Media is the metadata record of an uploaded asset. The binary itself lives in
// external storage addressed by URL.
type Media struct {
	bun.BaseModel `bun:"table:media,alias:md"`

	ID             int64               `bun:"id,pk,autoincrement" json:"id"`
	Filename       string              `bun:"filename,notnull" json:"filename"`
	StoredFilename string              `bun:"stored_filename,notnull" json:"storedFilename"`
	URL            string              `bun:"url,notnull" json:"url"`
	MIME           string              `bun:"mime,notnull" json:"mime"`
	Size           int64               `bun:"size,notnull" json:"size"`
	Width          *int                `bun:"width" json:"width,omitempty"`
	Height         *int                `bun:"height" json:"height,omitempty"`
	CreatedAt      time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
	Translations   []*MediaTranslation `bun:"rel:has-many,join:id=media_id" json:"translations"`
}

type MediaTranslation struct {
	bun.BaseModel `bun:"table:media_translations,alias:mdt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	MediaID   int64     `bun:"media_id,notnull" json:"mediaId"`
	Locale    string    `bun:"locale,notnull" json:"locale"`
	AltText   *string   `bun:"alt_text" json:"altText,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// Translation returns the alt text translation for locale, or nil.
func (m *Media) Translation(locale string) *MediaTranslation {
	if m == nil {
		return nil
	}
	for _, tr := range m.Translations {
		if tr != nil && tr.Locale == locale {
			return tr
		}
	}
	return nil
}

func (m *Media) Clone() *Media {
	if m == nil {
		return nil
	}
	cloned := *m
	cloned.Width = cloneInt(m.Width)
	cloned.Height = cloneInt(m.Height)
	if m.Translations != nil {
		cloned.Translations = make([]*MediaTranslation, 0, len(m.Translations))
		for _, tr := range m.Translations {
			if tr == nil {
				continue
			}
			copied := *tr
			if tr.AltText != nil {
				alt := *tr.AltText
				copied.AltText = &alt
			}
			cloned.Translations = append(cloned.Translations, &copied)
		}
	}
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
