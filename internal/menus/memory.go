package menus

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lumenworks/sectioncms/internal/domain"
)

// MemoryRepository is an in-memory menu store.
type MemoryRepository struct {
	mu            sync.RWMutex
	menus         map[int64]*Menu
	keyIndex      map[string]int64
	nextID        int64
	nextTranslate int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		menus:    make(map[int64]*Menu),
		keyIndex: make(map[string]int64),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.keyIndex[record.Key]; taken {
		return nil, &domain.ConflictError{Resource: "menu", Field: "key", Value: record.Key}
	}
	copied := record.Clone()
	m.nextID++
	copied.ID = m.nextID
	m.assignTranslationIDs(copied)
	m.menus[copied.ID] = copied
	m.keyIndex[copied.Key] = copied.ID
	return copied.Clone(), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.menus[id]
	if !ok {
		return nil, domain.NotFound("menu", id)
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) GetByKey(_ context.Context, key string) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.keyIndex[key]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "menu", Key: key}
	}
	return m.menus[id].Clone(), nil
}

func (m *MemoryRepository) List(_ context.Context, opts domain.ListOptions) (domain.ListResult[*Menu], error) {
	opts = opts.Normalize(SortColumns, "id")
	m.mu.RLock()
	all := make([]*Menu, 0, len(m.menus))
	for _, record := range m.menus {
		all = append(all, record.Clone())
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		var result int
		switch opts.SortBy {
		case "key":
			result = strings.Compare(all[i].Key, all[j].Key)
		case "createdAt":
			result = all[i].CreatedAt.Compare(all[j].CreatedAt)
		case "updatedAt":
			result = all[i].UpdatedAt.Compare(all[j].UpdatedAt)
		}
		if result == 0 {
			result = cmp.Compare(all[i].ID, all[j].ID)
		}
		if opts.SortOrder == domain.SortDesc {
			return result > 0
		}
		return result < 0
	})

	result := domain.ListResult[*Menu]{Items: []*Menu{}, Total: len(all), Page: opts.Page, Limit: opts.Limit}
	start := opts.Offset()
	if start < len(all) {
		result.Items = all[start:min(start+opts.Limit, len(all))]
	}
	return result, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Menu, replaceTranslations bool) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.menus[record.ID]
	if !ok {
		return nil, domain.NotFound("menu", record.ID)
	}
	if owner, taken := m.keyIndex[record.Key]; taken && owner != record.ID {
		return nil, &domain.ConflictError{Resource: "menu", Field: "key", Value: record.Key}
	}
	updated := current.Clone()
	updated.Key = record.Key
	updated.IsEnabled = record.IsEnabled
	updated.UpdatedAt = record.UpdatedAt
	if replaceTranslations {
		replacement := record.Clone()
		updated.Translations = replacement.Translations
		if updated.Translations == nil {
			updated.Translations = []*MenuTranslation{}
		}
		m.assignTranslationIDs(updated)
	}
	delete(m.keyIndex, current.Key)
	m.keyIndex[updated.Key] = updated.ID
	m.menus[updated.ID] = updated
	return updated.Clone(), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.menus[id]
	if !ok {
		return domain.NotFound("menu", id)
	}
	delete(m.keyIndex, record.Key)
	delete(m.menus, id)
	return nil
}

func (m *MemoryRepository) assignTranslationIDs(record *Menu) {
	for _, tr := range record.Translations {
		m.nextTranslate++
		tr.ID = m.nextTranslate
		tr.MenuID = record.ID
	}
}
