package storage

import (
	"context"

	"github.com/vietddude/payroll/internal/core/domain"
)

// UserRepository handles account storage operations
type UserRepository interface {
	// Save creates a user
	Save(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users
	GetAll(ctx context.Context) ([]*domain.User, error)

	// Update updates a user's mutable fields
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user
	Delete(ctx context.Context, id string) error
}

// EmployeeRepository handles employee storage operations
type EmployeeRepository interface {
	// Save creates an employee
	Save(ctx context.Context, employee *domain.Employee) error

	// GetByID retrieves an employee by id
	GetByID(ctx context.Context, id string) (*domain.Employee, error)

	// GetByUserID retrieves the employee linked to a user account
	GetByUserID(ctx context.Context, userID string) (*domain.Employee, error)

	// GetAll retrieves all employees
	GetAll(ctx context.Context) ([]*domain.Employee, error)

	// Update updates an employee's mutable fields
	Update(ctx context.Context, employee *domain.Employee) error

	// Delete removes an employee
	Delete(ctx context.Context, id string) error
}

// PayrollRepository handles payroll record storage operations
type PayrollRepository interface {
	// Save creates a payroll record
	Save(ctx context.Context, record *domain.PayrollRecord) error

	// GetByID retrieves a record by id
	GetByID(ctx context.Context, id string) (*domain.PayrollRecord, error)

	// GetByEmployee retrieves all records for an employee, newest first
	GetByEmployee(ctx context.Context, employeeID string) ([]*domain.PayrollRecord, error)

	// GetByPeriod retrieves all records for a period
	GetByPeriod(ctx context.Context, period domain.Period) ([]*domain.PayrollRecord, error)

	// Update updates a record's amounts and status
	Update(ctx context.Context, record *domain.PayrollRecord) error

	// UpdateStatus moves a record through draft → approved → paid
	UpdateStatus(ctx context.Context, id string, status domain.PayrollStatus) error

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Summarize aggregates all records for a period
	Summarize(ctx context.Context, period domain.Period) (*domain.MonthlySummary, error)
}
