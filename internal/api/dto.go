package api

import (
	"time"

	"github.com/vietddude/payroll/internal/core/domain"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type employeeResponse struct {
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

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Name:       e.Name,
		Position:   e.Position,
		Department: e.Department,
		BaseSalary: e.BaseSalary,
		HireDate:   e.HireDate,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

type payrollResponse struct {
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

func toPayrollResponse(r *domain.PayrollRecord) payrollResponse {
	return payrollResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Year:       r.Period.Year,
		Month:      int(r.Period.Month),
		BasePay:    r.BasePay,
		Allowances: r.Allowances,
		Deductions: r.Deductions,
		NetPay:     r.NetPay,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toPayrollResponses(records []*domain.PayrollRecord) []payrollResponse {
	out := make([]payrollResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toPayrollResponse(r))
	}
	return out
}

type summaryResponse struct {
	Year            int   `json:"year"`
	Month           int   `json:"month"`
	EmployeeCount   int   `json:"employee_count"`
	TotalBase       int64 `json:"total_base"`
	TotalAllowances int64 `json:"total_allowances"`
	TotalDeductions int64 `json:"total_deductions"`
	TotalNet        int64 `json:"total_net"`
}

func toSummaryResponse(s *domain.MonthlySummary) summaryResponse {
	return summaryResponse{
		Year:            s.Period.Year,
		Month:           int(s.Period.Month),
		EmployeeCount:   s.EmployeeCount,
		TotalBase:       s.TotalBase,
		TotalAllowances: s.TotalAllowances,
		TotalDeductions: s.TotalDeductions,
		TotalNet:        s.TotalNet,
	}
}
