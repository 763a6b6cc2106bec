package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/storage"
)

// PayrollHandler handles payroll record administration and reporting.
type PayrollHandler struct {
	payroll   storage.PayrollRepository
	employees storage.EmployeeRepository
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(payroll storage.PayrollRepository, employees storage.EmployeeRepository) *PayrollHandler {
	return &PayrollHandler{payroll: payroll, employees: employees}
}

type payrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	BasePay    int64  `json:"base_pay"`
	Allowances int64  `json:"allowances"`
	Deductions int64  `json:"deductions"`
}

// Create handles POST /api/v1/payroll
func (h *PayrollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	period := domain.Period{Year: req.Year, Month: time.Month(req.Month)}
	if !period.Valid() {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "year and month must identify a valid period")
		return
	}
	if req.BasePay < 0 || req.Allowances < 0 || req.Deductions < 0 {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "amounts must not be negative")
		return
	}

	employee, err := h.employees.GetByID(r.Context(), req.EmployeeID)
	if errors.Is(err, domain.ErrNotFound) {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "employee does not exist")
		return
	}
	if err != nil {
		HandleError(w, err)
		return
	}

	basePay := req.BasePay
	if basePay == 0 {
		basePay = employee.BaseSalary
	}

	now := time.Now().UTC()
	record := &domain.PayrollRecord{
		ID:         uuid.NewString(),
		EmployeeID: employee.ID,
		Period:     period,
		BasePay:    basePay,
		Allowances: req.Allowances,
		Deductions: req.Deductions,
		Status:     domain.PayrollStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	record.ComputeNet()

	if err := h.payroll.Save(r.Context(), record); err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPayrollResponse(record))
}

// List handles GET /api/v1/payroll?year=&month= (period filter optional)
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	period, ok, errMsg := periodFromQuery(r)
	if errMsg != "" {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, errMsg)
		return
	}
	if !ok {
		// Without a period filter, default to the current month.
		now := time.Now().UTC()
		period = domain.Period{Year: now.Year(), Month: now.Month()}
	}
	records, err := h.payroll.GetByPeriod(r.Context(), period)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPayrollResponses(records))
}

// Get handles GET /api/v1/payroll/{id}
func (h *PayrollHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.payroll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPayrollResponse(record))
}

type payrollUpdateRequest struct {
	BasePay    *int64 `json:"base_pay"`
	Allowances *int64 `json:"allowances"`
	Deductions *int64 `json:"deductions"`
}

// Update handles PUT /api/v1/payroll/{id}. Only draft records may change.
func (h *PayrollHandler) Update(w http.ResponseWriter, r *http.Request) {
	record, err := h.payroll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	if record.Status != domain.PayrollStatusDraft {
		WriteError(w, http.StatusConflict, CodeInvalidRequest, "only draft records can be edited")
		return
	}

	var req payrollUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	if req.BasePay != nil {
		record.BasePay = *req.BasePay
	}
	if req.Allowances != nil {
		record.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		record.Deductions = *req.Deductions
	}
	if record.BasePay < 0 || record.Allowances < 0 || record.Deductions < 0 {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "amounts must not be negative")
		return
	}
	record.ComputeNet()

	if err := h.payroll.Update(r.Context(), record); err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPayrollResponse(record))
}

// Approve handles POST /api/v1/payroll/{id}/approve
func (h *PayrollHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.PayrollStatusDraft, domain.PayrollStatusApproved)
}

// Pay handles POST /api/v1/payroll/{id}/pay
func (h *PayrollHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, domain.PayrollStatusApproved, domain.PayrollStatusPaid)
}

func (h *PayrollHandler) transition(w http.ResponseWriter, r *http.Request, from, to domain.PayrollStatus) {
	record, err := h.payroll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	if record.Status != from {
		WriteError(w, http.StatusConflict, CodeInvalidRequest,
			"record is "+string(record.Status)+", expected "+string(from))
		return
	}
	if err := h.payroll.UpdateStatus(r.Context(), record.ID, to); err != nil {
		HandleError(w, err)
		return
	}
	record.Status = to
	WriteJSON(w, http.StatusOK, toPayrollResponse(record))
}

// Delete handles DELETE /api/v1/payroll/{id}
func (h *PayrollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	record, err := h.payroll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	if record.Status == domain.PayrollStatusPaid {
		WriteError(w, http.StatusConflict, CodeInvalidRequest, "paid records cannot be deleted")
		return
	}
	if err := h.payroll.Delete(r.Context(), record.ID); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MonthlyReport handles GET /api/v1/reports/monthly?year=&month=
func (h *PayrollHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	period, ok, errMsg := periodFromQuery(r)
	if errMsg != "" || !ok {
		if errMsg == "" {
			errMsg = "year and month query parameters are required"
		}
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, errMsg)
		return
	}
	summary, err := h.payroll.Summarize(r.Context(), period)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Payslips handles GET /api/v1/payslips: the caller's own records.
func (h *PayrollHandler) Payslips(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.callerEmployee(w, r)
	if !ok {
		return
	}
	records, err := h.payroll.GetByEmployee(r.Context(), employee.ID)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPayrollResponses(records))
}

// Payslip handles GET /api/v1/payslips/{id}: one of the caller's records.
func (h *PayrollHandler) Payslip(w http.ResponseWriter, r *http.Request) {
	employee, ok := h.callerEmployee(w, r)
	if !ok {
		return
	}
	record, err := h.payroll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	if record.EmployeeID != employee.ID {
		// Do not reveal that the record exists.
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
		return
	}
	WriteJSON(w, http.StatusOK, toPayrollResponse(record))
}

func (h *PayrollHandler) callerEmployee(w http.ResponseWriter, r *http.Request) (*domain.Employee, bool) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return nil, false
	}
	employee, err := h.employees.GetByUserID(r.Context(), identity.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		WriteError(w, http.StatusNotFound, CodeNotFound, "no employee record linked to this account")
		return nil, false
	}
	if err != nil {
		HandleError(w, err)
		return nil, false
	}
	return employee, true
}

func periodFromQuery(r *http.Request) (domain.Period, bool, string) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" && monthStr == "" {
		return domain.Period{}, false, ""
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return domain.Period{}, false, "year must be an integer"
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return domain.Period{}, false, "month must be an integer"
	}
	period := domain.Period{Year: year, Month: time.Month(month)}
	if !period.Valid() {
		return domain.Period{}, false, "year and month must identify a valid period"
	}
	return period, true, ""
}
