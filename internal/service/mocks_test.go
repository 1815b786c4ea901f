package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	createFunc     func(ctx context.Context, user *model.User) error
	getByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	listFunc       func(ctx context.Context, filter repository.Filter, page, limit int) ([]model.User, int64, error)
	listIDsFunc    func(ctx context.Context, filter repository.Filter) ([]string, error)
	countFunc      func(ctx context.Context, filter repository.Filter) (int64, error)
	updateFunc     func(ctx context.Context, user *model.User) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errNotImplemented
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) List(ctx context.Context, filter repository.Filter, page, limit int) ([]model.User, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, page, limit)
	}
	return nil, 0, errNotImplemented
}

func (m *mockUserRepository) ListIDs(ctx context.Context, filter repository.Filter) ([]string, error) {
	if m.listIDsFunc != nil {
		return m.listIDsFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) Count(ctx context.Context, filter repository.Filter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, errNotImplemented
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return errNotImplemented
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

// =============================================================================
// Mock EmployeeRepository
// =============================================================================

type mockEmployeeRepository struct {
	createFunc          func(ctx context.Context, employee *model.Employee) error
	getByIDFunc         func(ctx context.Context, id string) (*model.Employee, error)
	getByEmployeeIDFunc func(ctx context.Context, employeeID string) (*model.Employee, error)
	listFunc            func(ctx context.Context, filter repository.Filter, page, limit int) ([]model.Employee, int64, error)
	findAllFunc         func(ctx context.Context, filter repository.Filter) ([]model.Employee, error)
	countFunc           func(ctx context.Context, filter repository.Filter) (int64, error)
	updateFunc          func(ctx context.Context, employee *model.Employee) error
	deleteFunc          func(ctx context.Context, id string) error
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, employee)
	}
	return errNotImplemented
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockEmployeeRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	if m.getByEmployeeIDFunc != nil {
		return m.getByEmployeeIDFunc(ctx, employeeID)
	}
	return nil, errNotImplemented
}

func (m *mockEmployeeRepository) List(ctx context.Context, filter repository.Filter, page, limit int) ([]model.Employee, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, page, limit)
	}
	return nil, 0, errNotImplemented
}

func (m *mockEmployeeRepository) FindAll(ctx context.Context, filter repository.Filter) ([]model.Employee, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter)
	}
	return nil, errNotImplemented
}

func (m *mockEmployeeRepository) Count(ctx context.Context, filter repository.Filter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, errNotImplemented
}

func (m *mockEmployeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, employee)
	}
	return errNotImplemented
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errNotImplemented
}

// =============================================================================
// Mock ActivityRepository
// =============================================================================

type mockActivityRepository struct {
	logFunc  func(ctx context.Context, entry *model.Activity) error
	listFunc func(ctx context.Context, filter repository.Filter, page, limit int) ([]model.Activity, int64, error)
	allFunc  func(ctx context.Context) ([]model.Activity, error)
}

func (m *mockActivityRepository) Log(ctx context.Context, entry *model.Activity) error {
	if m.logFunc != nil {
		return m.logFunc(ctx, entry)
	}
	return errNotImplemented
}

func (m *mockActivityRepository) List(ctx context.Context, filter repository.Filter, page, limit int) ([]model.Activity, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, page, limit)
	}
	return nil, 0, errNotImplemented
}

func (m *mockActivityRepository) All(ctx context.Context) ([]model.Activity, error) {
	if m.allFunc != nil {
		return m.allFunc(ctx)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock ReportRepository
// =============================================================================

type mockReportRepository struct {
	employeeGrowthFunc func(ctx context.Context, since time.Time, bucket string) ([]model.GrowthPoint, error)
}

func (m *mockReportRepository) EmployeeGrowth(ctx context.Context, since time.Time, bucket string) ([]model.GrowthPoint, error) {
	if m.employeeGrowthFunc != nil {
		return m.employeeGrowthFunc(ctx, since, bucket)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Collaborator fakes
// =============================================================================

// recorderSpy captures activity entries instead of persisting them
type recorderSpy struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recorderSpy) Record(_ context.Context, entry ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorderSpy) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type publisherSpy struct {
	events []string
	data   []interface{}
}

func (p *publisherSpy) Publish(event string, data interface{}) {
	p.events = append(p.events, event)
	p.data = append(p.data, data)
}

type stubQR struct {
	calls int
	err   error
}

func (s *stubQR) Generate(employeeID string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "data:image/png;base64,QR-" + employeeID, nil
}

// plainHasher avoids bcrypt cost in tests that do not exercise hashing
type plainHasher struct {
	dummyCalls int
}

func (h *plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *plainHasher) Compare(hash, plain string) bool { return hash == "hashed:"+plain }

func (h *plainHasher) CompareDummy(string) { h.dummyCalls++ }

// =============================================================================
// Test Helpers
// =============================================================================

func newActor(id string, perms model.Permissions) *model.User {
	return &model.User{
		ID:          id,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       id + "@example.com",
		Role:        model.RoleManager,
		Permissions: perms,
	}
}

// usersWith serves GetByID from a fixed set and reports ErrNotFound otherwise
func usersWith(users ...*model.User) *mockUserRepository {
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			u, ok := byID[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			cp := *u
			return &cp, nil
		},
	}
}

// lockSpy runs fn inline and records which advisory locks were requested
type lockSpy struct {
	keys []int64
}

func (l *lockSpy) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (l *lockSpy) RunLocked(ctx context.Context, key int64, fn func(context.Context) error) error {
	l.keys = append(l.keys, key)
	return fn(ctx)
}
