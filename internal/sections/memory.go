package sections

import (
	"context"
	"sort"
	"sync"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// MemoryRepository is an in-memory section store for tests and the memory driver.
type MemoryRepository struct {
	mu            sync.RWMutex
	sections      map[int64]*Section
	nextID        int64
	nextTranslate int64
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sections: make(map[int64]*Section)}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *Section) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkLocales(record.Translations); err != nil {
		return nil, err
	}
	copied := record.Clone()
	m.nextID++
	copied.ID = m.nextID
	m.assignTranslationIDs(copied)
	m.sections[copied.ID] = copied
	return copied.Clone(), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.sections[id]
	if !ok {
		return nil, domain.NotFound("section", id)
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) ListByPage(_ context.Context, pageID int64, enabledOnly bool) ([]*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Section, 0)
	for _, record := range m.sections {
		if record.PageID != pageID {
			continue
		}
		if enabledOnly && !record.IsEnabled {
			continue
		}
		out = append(out, record.Clone())
	}
	SortSections(out)
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Section, replaceTranslations bool) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sections[record.ID]
	if !ok {
		return nil, domain.NotFound("section", record.ID)
	}
	updated := current.Clone()
	updated.Type = record.Type
	updated.IsEnabled = record.IsEnabled
	updated.SortOrder = record.SortOrder
	updated.Config = cloneMap(record.Config)
	updated.UpdatedAt = record.UpdatedAt
	if replaceTranslations {
		if err := checkLocales(record.Translations); err != nil {
			return nil, err
		}
		updated.Translations = cloneTranslations(record.Translations)
		if updated.Translations == nil {
			updated.Translations = []*SectionTranslation{}
		}
		m.assignTranslationIDs(updated)
	}
	m.sections[updated.ID] = updated
	return updated.Clone(), nil
}

func (m *MemoryRepository) UpdateSortOrders(_ context.Context, pageID int64, orders map[int64]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range orders {
		record, ok := m.sections[id]
		if !ok || record.PageID != pageID {
			return domain.NotFound("section", id)
		}
	}
	for id, order := range orders {
		m.sections[id].SortOrder = order
	}
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sections[id]; !ok {
		return domain.NotFound("section", id)
	}
	delete(m.sections, id)
	return nil
}

func (m *MemoryRepository) CountByPage(_ context.Context, pageID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, record := range m.sections {
		if record.PageID == pageID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) assignTranslationIDs(record *Section) {
	for _, tr := range record.Translations {
		m.nextTranslate++
		tr.ID = m.nextTranslate
		tr.SectionID = record.ID
	}
}

// checkLocales enforces the (section, locale) uniqueness the SQL schema guarantees.
func checkLocales(translations []*SectionTranslation) error {
	seen := make(map[string]struct{}, len(translations))
	for _, tr := range translations {
		if tr == nil {
			continue
		}
		if _, ok := seen[tr.Locale]; ok {
			return &domain.ConflictError{Resource: "section translation", Field: "locale", Value: tr.Locale}
		}
		seen[tr.Locale] = struct{}{}
	}
	return nil
}

// SortSections orders sections by sort order ascending with id as tie-break.
func SortSections(records []*Section) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SortOrder == records[j].SortOrder {
			return records[i].ID < records[j].ID
		}
		return records[i].SortOrder < records[j].SortOrder
	})
}
