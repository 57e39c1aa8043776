package pagescmd

import (
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/sections"
)

const (
	bulkPagesMessageType      = "sectioncms.pages.bulk"
	duplicatePageMessageType  = "sectioncms.pages.duplicate"
	deleteSectionMessageType  = "sectioncms.sections.delete"
	reorderSectionMessageType = "sectioncms.sections.reorder"
)

// BulkPagesCommand applies one action to many pages. Result is filled on success
// when non-nil.
type BulkPagesCommand struct {
	Action pages.BulkAction  `json:"action"`
	IDs    []int64           `json:"ids"`
	Result *pages.BulkResult `json:"-"`
}

func (BulkPagesCommand) Type() string { return bulkPagesMessageType }

func (m BulkPagesCommand) Validate() error {
	return pages.BulkRequest{Action: m.Action, IDs: m.IDs}.Validate()
}

// DuplicatePageCommand copies a page with its sections under a new key.
type DuplicatePageCommand struct {
	PageID  int64       `json:"pageId"`
	NewKey  string      `json:"newKey"`
	NewSlug string      `json:"newSlug"`
	Result  *pages.Page `json:"-"`
}

func (DuplicatePageCommand) Type() string { return duplicatePageMessageType }

func (m DuplicatePageCommand) Validate() error {
	return pages.DuplicatePageRequest{ID: m.PageID, NewKey: m.NewKey, NewSlug: m.NewSlug}.Validate()
}

// DeleteSectionCommand removes a section with its translations.
type DeleteSectionCommand struct {
	SectionID int64 `json:"sectionId"`
}

func (DeleteSectionCommand) Type() string { return deleteSectionMessageType }

func (m DeleteSectionCommand) Validate() error {
	if m.SectionID <= 0 {
		return errSectionIDRequired
	}
	return nil
}

// ReorderSectionsCommand rewrites the sort order of sections on one page.
type ReorderSectionsCommand struct {
	PageID int64                     `json:"pageId"`
	Items  []sections.SortOrderInput `json:"items"`
	Result *[]*sections.Section      `json:"-"`
}

func (ReorderSectionsCommand) Type() string { return reorderSectionMessageType }

func (m ReorderSectionsCommand) Validate() error {
	return sections.ReorderSectionsRequest{PageID: m.PageID, Items: m.Items}.Validate()
}
