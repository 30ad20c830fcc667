package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/store"
)

// EmployeesHandler handles employee CRUD endpoints.
type EmployeesHandler struct {
	DB *sql.DB
}

type employeeRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := store.ListEmployees(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	jsonResponse(w, http.StatusOK, employees)
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.PhoneNumber == "" || req.Gender == "" {
		jsonError(w, http.StatusBadRequest, "name, phone_number and gender are required")
		return
	}

	employee, err := store.CreateEmployee(r.Context(), h.DB, req.Name, req.PhoneNumber, req.Gender)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}
	jsonResponse(w, http.StatusCreated, employee)
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	employee, err := store.UpdateEmployee(r.Context(), h.DB, id, req.Name, req.PhoneNumber, req.Gender)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, employee)
}

// Delete handles DELETE /api/employees/{id}.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := store.DeleteEmployee(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Employee deleted"})
}
