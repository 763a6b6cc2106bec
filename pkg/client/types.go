package client

import "time"

// Wire types for the payroll API. Amounts are in cents.

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Employee struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	BaseSalary int64     `json:"base_salary"`
	HireDate   time.Time `json:"hire_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PayrollRecord struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	BasePay    int64     `json:"base_pay"`
	Allowances int64     `json:"allowances"`
	Deductions int64     `json:"deductions"`
	NetPay     int64     `json:"net_pay"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MonthlySummary struct {
	Year            int   `json:"year"`
	Month           int   `json:"month"`
	EmployeeCount   int   `json:"employee_count"`
	TotalBase       int64 `json:"total_base"`
	TotalAllowances int64 `json:"total_allowances"`
	TotalDeductions int64 `json:"total_deductions"`
	TotalNet        int64 `json:"total_net"`
}

type Settings struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  User   `json:"user"`
}
