package domain

import "time"

// Employee represents a payroll subject. UserID links the employee to a
// sign-in account; it is empty for employees without portal access.
type Employee struct {
	ID         string
	UserID     string
	Name       string
	Position   string
	Department string
	// BaseSalary is the monthly base salary in cents.
	BaseSalary int64
	HireDate   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
