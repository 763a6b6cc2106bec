package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/payroll/internal/core/domain"
)

// PayrollRepo implements storage.PayrollRepository using PostgreSQL.
type PayrollRepo struct {
	db *DB
}

// NewPayrollRepo creates a new PostgreSQL payroll repository.
func NewPayrollRepo(db *DB) *PayrollRepo {
	return &PayrollRepo{db: db}
}

type payrollRow struct {
	ID         string    `db:"id"`
	EmployeeID string    `db:"employee_id"`
	Year       int       `db:"year"`
	Month      int       `db:"month"`
	BasePay    int64     `db:"base_pay"`
	Allowances int64     `db:"allowances"`
	Deductions int64     `db:"deductions"`
	NetPay     int64     `db:"net_pay"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r payrollRow) toDomain() *domain.PayrollRecord {
	return &domain.PayrollRecord{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Period:     domain.Period{Year: r.Year, Month: time.Month(r.Month)},
		BasePay:    r.BasePay,
		Allowances: r.Allowances,
		Deductions: r.Deductions,
		NetPay:     r.NetPay,
		Status:     domain.PayrollStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r *PayrollRepo) Save(ctx context.Context, record *domain.PayrollRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payroll_records
			(id, employee_id, year, month, base_pay, allowances, deductions, net_pay, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.ID, record.EmployeeID, record.Period.Year, int(record.Period.Month),
		record.BasePay, record.Allowances, record.Deductions, record.NetPay,
		string(record.Status), record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to save payroll record: %w", err)
	}
	return nil
}

func (r *PayrollRepo) GetByID(ctx context.Context, id string) (*domain.PayrollRecord, error) {
	var row payrollRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM payroll_records WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PayrollRepo) GetByEmployee(ctx context.Context, employeeID string) ([]*domain.PayrollRecord, error) {
	var rows []payrollRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM payroll_records
		WHERE employee_id = $1
		ORDER BY year DESC, month DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	return rowsToDomain(rows), nil
}

func (r *PayrollRepo) GetByPeriod(ctx context.Context, period domain.Period) ([]*domain.PayrollRecord, error) {
	var rows []payrollRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM payroll_records
		WHERE year = $1 AND month = $2
		ORDER BY employee_id`, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records by period: %w", err)
	}
	return rowsToDomain(rows), nil
}

func (r *PayrollRepo) Update(ctx context.Context, record *domain.PayrollRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payroll_records
		SET base_pay = $2, allowances = $3, deductions = $4, net_pay = $5,
		    status = $6, updated_at = NOW()
		WHERE id = $1`,
		record.ID, record.BasePay, record.Allowances, record.Deductions,
		record.NetPay, string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	return checkAffected(res)
}

func (r *PayrollRepo) UpdateStatus(ctx context.Context, id string, status domain.PayrollStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payroll_records SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	return checkAffected(res)
}

func (r *PayrollRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	return checkAffected(res)
}

func (r *PayrollRepo) Summarize(ctx context.Context, period domain.Period) (*domain.MonthlySummary, error) {
	var row struct {
		EmployeeCount   int   `db:"employee_count"`
		TotalBase       int64 `db:"total_base"`
		TotalAllowances int64 `db:"total_allowances"`
		TotalDeductions int64 `db:"total_deductions"`
		TotalNet        int64 `db:"total_net"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*)                        AS employee_count,
			COALESCE(SUM(base_pay), 0)      AS total_base,
			COALESCE(SUM(allowances), 0)    AS total_allowances,
			COALESCE(SUM(deductions), 0)    AS total_deductions,
			COALESCE(SUM(net_pay), 0)       AS total_net
		FROM payroll_records
		WHERE year = $1 AND month = $2`, period.Year, int(period.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payroll: %w", err)
	}
	return &domain.MonthlySummary{
		Period:          period,
		EmployeeCount:   row.EmployeeCount,
		TotalBase:       row.TotalBase,
		TotalAllowances: row.TotalAllowances,
		TotalDeductions: row.TotalDeductions,
		TotalNet:        row.TotalNet,
	}, nil
}

func rowsToDomain(rows []payrollRow) []*domain.PayrollRecord {
	records := make([]*domain.PayrollRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records
}
