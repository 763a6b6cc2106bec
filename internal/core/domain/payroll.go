package domain

import (
	"fmt"
	"time"
)

type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "draft"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// Period identifies a payroll month.
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Valid reports whether the period refers to a real calendar month.
func (p Period) Valid() bool {
	return p.Year >= 2000 && p.Year <= 2200 && p.Month >= time.January && p.Month <= time.December
}

// PayrollRecord is one employee's pay for one period. Amounts are in cents.
// A record is unique per (EmployeeID, Period).
type PayrollRecord struct {
	ID         string
	EmployeeID string
	Period     Period
	BasePay    int64
	Allowances int64
	Deductions int64
	NetPay     int64
	Status     PayrollStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ComputeNet recalculates NetPay from the component amounts.
func (r *PayrollRecord) ComputeNet() {
	r.NetPay = r.BasePay + r.Allowances - r.Deductions
}

// MonthlySummary aggregates all payroll records for one period.
type MonthlySummary struct {
	Period          Period
	EmployeeCount   int
	TotalBase       int64
	TotalAllowances int64
	TotalDeductions int64
	TotalNet        int64
}
