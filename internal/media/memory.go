package media

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lumenworks/sectioncms/internal/domain"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[int64]*Media
	storedIndex map[string]int64
	nextID      int64
	nextTransID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     make(map[int64]*Media),
		storedIndex: make(map[string]int64),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *Media) (*Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.storedIndex[record.StoredFilename]; taken {
		return nil, &domain.ConflictError{Resource: "media", Field: "storedFilename", Value: record.StoredFilename}
	}
	copied := record.Clone()
	m.nextID++
	copied.ID = m.nextID
	m.assignTranslationIDs(copied)
	m.records[copied.ID] = copied
	m.storedIndex[copied.StoredFilename] = copied.ID
	return copied.Clone(), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*Media, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, domain.NotFound("media", id)
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) List(_ context.Context, opts domain.ListOptions) (domain.ListResult[*Media], error) {
	opts = opts.Normalize(SortColumns, "id")
	m.mu.RLock()
	all := make([]*Media, 0, len(m.records))
	for _, record := range m.records {
		all = append(all, record.Clone())
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		var result int
		switch opts.SortBy {
		case "filename":
			result = strings.Compare(all[i].Filename, all[j].Filename)
		case "size":
			result = cmp.Compare(all[i].Size, all[j].Size)
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

	result := domain.ListResult[*Media]{Items: []*Media{}, Total: len(all), Page: opts.Page, Limit: opts.Limit}
	if start := opts.Offset(); start < len(all) {
		result.Items = all[start:min(start+opts.Limit, len(all))]
	}
	return result, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Media, replaceTranslations bool) (*Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[record.ID]
	if !ok {
		return nil, domain.NotFound("media", record.ID)
	}
	updated := record.Clone()
	updated.StoredFilename = current.StoredFilename
	updated.CreatedAt = current.CreatedAt
	if replaceTranslations {
		if updated.Translations == nil {
			updated.Translations = []*MediaTranslation{}
		}
		m.assignTranslationIDs(updated)
	} else {
		updated.Translations = current.Clone().Translations
	}
	m.records[updated.ID] = updated
	return updated.Clone(), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return domain.NotFound("media", id)
	}
	delete(m.storedIndex, record.StoredFilename)
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) assignTranslationIDs(record *Media) {
	for _, tr := range record.Translations {
		m.nextTransID++
		tr.ID = m.nextTransID
		tr.MediaID = record.ID
	}
}
