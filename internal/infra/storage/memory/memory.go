package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vietddude/payroll/internal/core/domain"
)

// MemoryStorage backs the repositories with in-process maps. It exists for
// tests and DB-less local runs; the Postgres storage is the production path.
type MemoryStorage struct {
	users     map[string]*domain.User
	employees map[string]*domain.Employee
	payroll   map[string]*domain.PayrollRecord
	mu        sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:     make(map[string]*domain.User),
		employees: make(map[string]*domain.Employee),
		payroll:   make(map[string]*domain.PayrollRecord),
	}
}

// -----------------------------------------------------------------------------
// User Repository
// -----------------------------------------------------------------------------

type UserRepo struct {
	store *MemoryStorage
}

func NewUserRepo(store *MemoryStorage) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) GetAll(ctx context.Context) ([]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	users := make([]*domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.users, id)
	return nil
}

// -----------------------------------------------------------------------------
// Employee Repository
// -----------------------------------------------------------------------------

type EmployeeRepo struct {
	store *MemoryStorage
}

func NewEmployeeRepo(store *MemoryStorage) *EmployeeRepo {
	return &EmployeeRepo{store: store}
}

func (r *EmployeeRepo) Save(ctx context.Context, employee *domain.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *employee
	r.store.employees[employee.ID] = &cp
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *EmployeeRepo) GetByUserID(ctx context.Context, userID string) (*domain.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, e := range r.store.employees {
		if e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *EmployeeRepo) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	employees := make([]*domain.Employee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		cp := *e
		employees = append(employees, &cp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[employee.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *employee
	r.store.employees[employee.ID] = &cp
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.employees[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.employees, id)
	return nil
}

// -----------------------------------------------------------------------------
// Payroll Repository
// -----------------------------------------------------------------------------

type PayrollRepo struct {
	store *MemoryStorage
}

func NewPayrollRepo(store *MemoryStorage) *PayrollRepo {
	return &PayrollRepo{store: store}
}

func (r *PayrollRepo) Save(ctx context.Context, record *domain.PayrollRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.payroll {
		if p.EmployeeID == record.EmployeeID && p.Period == record.Period {
			return domain.ErrDuplicate
		}
	}
	cp := *record
	r.store.payroll[record.ID] = &cp
	return nil
}

func (r *PayrollRepo) GetByID(ctx context.Context, id string) (*domain.PayrollRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.payroll[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PayrollRepo) GetByEmployee(ctx context.Context, employeeID string) ([]*domain.PayrollRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var records []*domain.PayrollRecord
	for _, p := range r.store.payroll {
		if p.EmployeeID == employeeID {
			cp := *p
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Period.Year != records[j].Period.Year {
			return records[i].Period.Year > records[j].Period.Year
		}
		return records[i].Period.Month > records[j].Period.Month
	})
	return records, nil
}

func (r *PayrollRepo) GetByPeriod(ctx context.Context, period domain.Period) ([]*domain.PayrollRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var records []*domain.PayrollRecord
	for _, p := range r.store.payroll {
		if p.Period == period {
			cp := *p
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].EmployeeID < records[j].EmployeeID })
	return records, nil
}

func (r *PayrollRepo) Update(ctx context.Context, record *domain.PayrollRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.payroll[record.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *record
	r.store.payroll[record.ID] = &cp
	return nil
}

func (r *PayrollRepo) UpdateStatus(ctx context.Context, id string, status domain.PayrollStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payroll[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *PayrollRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.payroll[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.payroll, id)
	return nil
}

func (r *PayrollRepo) Summarize(ctx context.Context, period domain.Period) (*domain.MonthlySummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	summary := &domain.MonthlySummary{Period: period}
	for _, p := range r.store.payroll {
		if p.Period != period {
			continue
		}
		summary.EmployeeCount++
		summary.TotalBase += p.BasePay
		summary.TotalAllowances += p.Allowances
		summary.TotalDeductions += p.Deductions
		summary.TotalNet += p.NetPay
	}
	return summary, nil
}
