package users

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
)

type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]*User
	emailIndex map[string]int64
	nextID     int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]*User),
		emailIndex: make(map[string]int64),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.emailIndex[record.Email]; taken {
		return nil, &domain.ConflictError{Resource: "user", Field: "email", Value: record.Email}
	}
	copied := record.Clone()
	m.nextID++
	copied.ID = m.nextID
	m.users[copied.ID] = copied
	m.emailIndex[copied.Email] = copied.ID
	return copied.Clone(), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user", id)
	}
	return record.Clone(), nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emailIndex[email]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "user", Key: email}
	}
	return m.users[id].Clone(), nil
}

func (m *MemoryRepository) List(_ context.Context, opts domain.ListOptions) (domain.ListResult[*User], error) {
	opts = opts.Normalize(SortColumns, "id")
	m.mu.RLock()
	all := make([]*User, 0, len(m.users))
	for _, record := range m.users {
		all = append(all, record.Clone())
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		var result int
		switch opts.SortBy {
		case "email":
			result = strings.Compare(all[i].Email, all[j].Email)
		case "role":
			result = strings.Compare(string(all[i].Role), string(all[j].Role))
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

	result := domain.ListResult[*User]{Items: []*User{}, Total: len(all), Page: opts.Page, Limit: opts.Limit}
	if start := opts.Offset(); start < len(all) {
		result.Items = all[start:min(start+opts.Limit, len(all))]
	}
	return result, nil
}

func (m *MemoryRepository) UpdateRole(_ context.Context, id int64, role domain.Role, updatedAt time.Time) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user", id)
	}
	record.Role = role
	record.UpdatedAt = updatedAt
	return record.Clone(), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.users[id]
	if !ok {
		return domain.NotFound("user", id)
	}
	delete(m.emailIndex, record.Email)
	delete(m.users, id)
	return nil
}
