package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/storage"
)

// EmployeeHandler handles employee administration endpoints.
type EmployeeHandler struct {
	employees storage.EmployeeRepository
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employees storage.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

type employeeRequest struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	BaseSalary int64     `json:"base_salary"`
	HireDate   time.Time `json:"hire_date"`
}

func (req *employeeRequest) validate() (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required", false
	}
	if req.BaseSalary < 0 {
		return "base_salary must not be negative", false
	}
	if req.HireDate.IsZero() {
		return "hire_date is required", false
	}
	return "", true
}

// Create handles POST /api/v1/employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}

	now := time.Now().UTC()
	employee := &domain.Employee{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Name:       strings.TrimSpace(req.Name),
		Position:   req.Position,
		Department: req.Department,
		BaseSalary: req.BaseSalary,
		HireDate:   req.HireDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.employees.Save(r.Context(), employee); err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toEmployeeResponse(employee))
}

// List handles GET /api/v1/employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.GetAll(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// Update handles PUT /api/v1/employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	employee, err := h.employees.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}

	employee.UserID = req.UserID
	employee.Name = strings.TrimSpace(req.Name)
	employee.Position = req.Position
	employee.Department = req.Department
	employee.BaseSalary = req.BaseSalary
	employee.HireDate = req.HireDate

	if err := h.employees.Update(r.Context(), employee); err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// Delete handles DELETE /api/v1/employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
