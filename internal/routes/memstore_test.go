package routes

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

// In-memory stores for exercising the full router. Filters are ignored:
// predicate semantics are covered against SQL in the repository package.

type memUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = model.NewObjectID()
	}
	user.CreatedAt = time.Now()
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) all() []model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memUsers) List(_ context.Context, _ repository.Filter, page, limit int) ([]model.User, int64, error) {
	all := m.all()
	return paginate(all, page, limit), int64(len(all)), nil
}

func (m *memUsers) ListIDs(_ context.Context, _ repository.Filter) ([]string, error) {
	var ids []string
	for _, u := range m.all() {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (m *memUsers) Count(_ context.Context, _ repository.Filter) (int64, error) {
	return int64(len(m.all())), nil
}

func (m *memUsers) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memEmployees struct {
	mu   sync.Mutex
	byID map[string]model.Employee
}

func newMemEmployees() *memEmployees { return &memEmployees{byID: map[string]model.Employee{}} }

func (m *memEmployees) Create(_ context.Context, e *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = model.NewObjectID()
	}
	e.CreatedAt = time.Now()
	m.byID[e.ID] = *e
	return nil
}

func (m *memEmployees) GetByID(_ context.Context, id string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memEmployees) GetByEmployeeID(_ context.Context, employeeID string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.EmployeeID == employeeID {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memEmployees) FindAll(_ context.Context, _ repository.Filter) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Employee, 0, len(m.byID))
	for _, e := range m.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memEmployees) List(ctx context.Context, f repository.Filter, page, limit int) ([]model.Employee, int64, error) {
	all, _ := m.FindAll(ctx, f)
	return paginate(all, page, limit), int64(len(all)), nil
}

func (m *memEmployees) Count(ctx context.Context, f repository.Filter) (int64, error) {
	all, _ := m.FindAll(ctx, f)
	return int64(len(all)), nil
}

func (m *memEmployees) Update(_ context.Context, e *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[e.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[e.ID] = *e
	return nil
}

func (m *memEmployees) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memActivity struct {
	mu   sync.Mutex
	logs []model.Activity
}

func (m *memActivity) Log(_ context.Context, entry *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = model.NewObjectID()
	}
	entry.CreatedAt = time.Now()
	m.logs = append([]model.Activity{*entry}, m.logs...)
	return nil
}

func (m *memActivity) List(ctx context.Context, _ repository.Filter, page, limit int) ([]model.Activity, int64, error) {
	all, _ := m.All(ctx)
	return paginate(all, page, limit), int64(len(all)), nil
}

func (m *memActivity) All(context.Context) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Activity(nil), m.logs...), nil
}

type memReports struct{}

func (memReports) EmployeeGrowth(context.Context, time.Time, string) ([]model.GrowthPoint, error) {
	return nil, nil
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
