package menus

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxMenuDepth bounds the nesting of menu items, counting top-level items as 1.
const MaxMenuDepth = 8

// Menu is a named navigation tree with one item list per locale.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID           int64              `bun:"id,pk,autoincrement" json:"id"`
	Key          string             `bun:"key,notnull" json:"key"`
	IsEnabled    bool               `bun:"is_enabled,notnull" json:"isEnabled"`
	CreatedAt    time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
	Translations []*MenuTranslation `bun:"rel:has-many,join:id=menu_id" json:"translations"`
}

// MenuTranslation stores the item tree of a menu for one locale.
type MenuTranslation struct {
	bun.BaseModel `bun:"table:menu_translations,alias:mt"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	MenuID    int64      `bun:"menu_id,notnull" json:"menuId"`
	Locale    string     `bun:"locale,notnull" json:"locale"`
	Items     []MenuItem `bun:"items,type:jsonb,notnull" json:"items"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// MenuItem is one navigation link, optionally with nested children.
type MenuItem struct {
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	NewTab   bool       `json:"newTab"`
	Children []MenuItem `json:"children,omitempty"`
}

func (m *Menu) Translation(locale string) *MenuTranslation {
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

func (m *Menu) Clone() *Menu {
	if m == nil {
		return nil
	}
	cloned := *m
	if m.Translations != nil {
		cloned.Translations = make([]*MenuTranslation, 0, len(m.Translations))
		for _, tr := range m.Translations {
			if tr == nil {
				continue
			}
			copied := *tr
			copied.Items = CloneItems(tr.Items)
			cloned.Translations = append(cloned.Translations, &copied)
		}
	}
	return &cloned
}

// CloneItems deep-copies an item tree.
func CloneItems(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Children = CloneItems(item.Children)
	}
	return out
}

// Depth returns the nesting depth of an item tree. An empty tree has depth 0.
func Depth(items []MenuItem) int {
	deepest := 0
	for _, item := range items {
		if d := 1 + Depth(item.Children); d > deepest {
			deepest = d
		}
	}
	return deepest
}
