package pages

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/sections"
)

// MemoryRepository is an in-memory page store for tests and the memory driver. It
// consults the section store to guard deletes and to copy sections on Duplicate.
type MemoryRepository struct {
	mu            sync.RWMutex
	pages         map[int64]*Page
	keyIndex      map[string]int64
	sections      sections.Repository
	nextID        int64
	nextTranslate int64
}

// NewMemoryRepository constructs the repository on top of a section store.
func NewMemoryRepository(sectionStore sections.Repository) *MemoryRepository {
	return &MemoryRepository{
		pages:    make(map[int64]*Page),
		keyIndex: make(map[string]int64),
		sections: sectionStore,
	}
}

var (
	_ Repository          = (*MemoryRepository)(nil)
	_ sections.PageLookup = (*MemoryRepository)(nil)
)

func (m *MemoryRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(record)
}

func (m *MemoryRepository) insertLocked(record *Page) (*Page, error) {
	if _, taken := m.keyIndex[record.Key]; taken {
		return nil, &domain.ConflictError{Resource: "page", Field: "key", Value: record.Key}
	}
	if err := checkLocales(record.Translations); err != nil {
		return nil, err
	}
	copied := record.Clone()
	m.nextID++
	copied.ID = m.nextID
	m.assignTranslationIDs(copied)
	m.pages[copied.ID] = copied
	m.keyIndex[copied.Key] = copied.ID
	return copied.Clone(), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.pages[id]
	if !ok {
		return nil, domain.NotFound("page", id)
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) GetByKey(_ context.Context, key string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.keyIndex[key]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "page", Key: key}
	}
	return m.pages[id].Clone(), nil
}

func (m *MemoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pages[id]
	return ok, nil
}

func (m *MemoryRepository) List(_ context.Context, opts domain.ListOptions) (domain.ListResult[*Page], error) {
	opts = opts.Normalize(SortColumns, "id")
	m.mu.RLock()
	all := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		all = append(all, record.Clone())
	}
	m.mu.RUnlock()

	sortPages(all, opts.SortBy, opts.SortOrder)
	result := domain.ListResult[*Page]{Items: []*Page{}, Total: len(all), Page: opts.Page, Limit: opts.Limit}
	start := opts.Offset()
	if start >= len(all) {
		return result, nil
	}
	end := start + opts.Limit
	if end > len(all) {
		end = len(all)
	}
	result.Items = all[start:end]
	return result, nil
}

func (m *MemoryRepository) ListEnabled(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		if record.IsEnabled {
			out = append(out, record.Clone())
		}
	}
	sortPages(out, "key", domain.SortAsc)
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Page, replaceTranslations bool) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.pages[record.ID]
	if !ok {
		return nil, domain.NotFound("page", record.ID)
	}
	if owner, taken := m.keyIndex[record.Key]; taken && owner != record.ID {
		return nil, &domain.ConflictError{Resource: "page", Field: "key", Value: record.Key}
	}
	updated := current.Clone()
	updated.Key = record.Key
	updated.Slug = record.Slug
	updated.IsEnabled = record.IsEnabled
	updated.UpdatedAt = record.UpdatedAt
	if replaceTranslations {
		if err := checkLocales(record.Translations); err != nil {
			return nil, err
		}
		updated.Translations = cloneTranslations(record.Translations)
		if updated.Translations == nil {
			updated.Translations = []*PageTranslation{}
		}
		m.assignTranslationIDs(updated)
	}
	delete(m.keyIndex, current.Key)
	m.keyIndex[updated.Key] = updated.ID
	m.pages[updated.ID] = updated
	return updated.Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.pages[id]
	if !ok {
		return domain.NotFound("page", id)
	}
	if m.sections != nil {
		count, err := m.sections.CountByPage(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return sectionsRemainError(id, count)
		}
	}
	delete(m.keyIndex, record.Key)
	delete(m.pages, id)
	return nil
}

func (m *MemoryRepository) Duplicate(ctx context.Context, sourceID int64, target *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[sourceID]; !ok {
		return nil, domain.NotFound("page", sourceID)
	}
	created, err := m.insertLocked(target)
	if err != nil {
		return nil, err
	}
	if m.sections == nil {
		return created, nil
	}

	source, err := m.sections.ListByPage(ctx, sourceID, false)
	if err != nil {
		m.removeLocked(ctx, created, nil)
		return nil, err
	}
	copied := make([]int64, 0, len(source))
	for _, record := range source {
		clone := copySection(record, created.ID)
		inserted, err := m.sections.Create(ctx, clone)
		if err != nil {
			m.removeLocked(ctx, created, copied)
			return nil, err
		}
		copied = append(copied, inserted.ID)
	}
	return created, nil
}

// removeLocked undoes a partially applied Duplicate.
func (m *MemoryRepository) removeLocked(ctx context.Context, page *Page, sectionIDs []int64) {
	for _, id := range sectionIDs {
		_ = m.sections.Delete(ctx, id)
	}
	delete(m.keyIndex, page.Key)
	delete(m.pages, page.ID)
}

func (m *MemoryRepository) assignTranslationIDs(record *Page) {
	for _, tr := range record.Translations {
		m.nextTranslate++
		tr.ID = m.nextTranslate
		tr.PageID = record.ID
	}
}

func checkLocales(translations []*PageTranslation) error {
	seen := make(map[string]struct{}, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		if _, ok := seen[tr.Locale]; ok {
			return &domain.ConflictError{Resource: "page translation", Field: "locale", Value: tr.Locale}
		}
		seen[tr.Locale] = struct{}{}
	}
	return nil
}

// copySection clones a section and its translations onto pageID with fresh ids.
func copySection(record *sections.Section, pageID int64) *sections.Section {
	clone := record.Clone()
	clone.ID = 0
	clone.PageID = pageID
	for _, tr := range clone.Translations {
		tr.ID = 0
		tr.SectionID = 0
	}
	return clone
}

func sortPages(records []*Page, column string, order domain.SortOrder) {
	compare := func(a, b *Page) int {
		switch column {
		case "key":
			return strings.Compare(a.Key, b.Key)
		case "slug":
			return strings.Compare(a.Slug, b.Slug)
		case "createdAt":
			return a.CreatedAt.Compare(b.CreatedAt)
		case "updatedAt":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return 0
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		result := compare(records[i], records[j])
		if result == 0 {
			result = cmp.Compare(records[i].ID, records[j].ID)
		}
		if order == domain.SortDesc {
			return result > 0
		}
		return result < 0
	})
}
