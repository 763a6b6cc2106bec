package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/payroll/internal/core/domain"
)

// EmployeeRepo implements storage.EmployeeRepository using PostgreSQL.
type EmployeeRepo struct {
	db *DB
}

// NewEmployeeRepo creates a new PostgreSQL employee repository.
func NewEmployeeRepo(db *DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

type employeeRow struct {
	ID         string         `db:"id"`
	UserID     sql.NullString `db:"user_id"`
	Name       string         `db:"name"`
	Position   string         `db:"position"`
	Department string         `db:"department"`
	BaseSalary int64          `db:"base_salary"`
	HireDate   time.Time      `db:"hire_date"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r employeeRow) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:         r.ID,
		UserID:     r.UserID.String,
		Name:       r.Name,
		Position:   r.Position,
		Department: r.Department,
		BaseSalary: r.BaseSalary,
		HireDate:   r.HireDate,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

func (r *EmployeeRepo) Save(ctx context.Context, employee *domain.Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, user_id, name, position, department, base_salary, hire_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		employee.ID, nullableID(employee.UserID), employee.Name, employee.Position,
		employee.Department, employee.BaseSalary, employee.HireDate,
		employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var row employeeRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM employees WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return row.toDomain(), nil
}

func (r *EmployeeRepo) GetByUserID(ctx context.Context, userID string) (*domain.Employee, error) {
	var row employeeRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM employees WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *EmployeeRepo) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	var rows []employeeRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM employees ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	employees := make([]*domain.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, row.toDomain())
	}
	return employees, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET user_id = $2, name = $3, position = $4, department = $5,
		    base_salary = $6, hire_date = $7, updated_at = NOW()
		WHERE id = $1`,
		employee.ID, nullableID(employee.UserID), employee.Name, employee.Position,
		employee.Department, employee.BaseSalary, employee.HireDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return checkAffected(res)
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return checkAffected(res)
}
