package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/store"
)

// ExpensesHandler handles expense endpoints.
type ExpensesHandler struct {
	DB       *sql.DB
	Location *time.Location
}

type createExpenseRequest struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Date        string   `json:"date"`
}

// Create handles POST /api/expenses. An optional date (YYYY-MM-DD) back-dates
// the expense to that day in the reporting timezone.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Amount == nil {
		jsonError(w, http.StatusBadRequest, "amount is required")
		return
	}

	var createdAt time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, h.Location)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
		createdAt = parsed
	}

	expense, err := store.CreateExpense(r.Context(), h.DB, req.Description, *req.Amount, createdAt)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	jsonResponse(w, http.StatusCreated, expense)
}

// List handles GET /api/expenses.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := store.ListExpenses(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	jsonResponse(w, http.StatusOK, expenses)
}

// ListForDay handles GET /api/expenses/day?date=YYYY-MM-DD.
func (h *ExpensesHandler) ListForDay(w http.ResponseWriter, r *http.Request) {
	day := time.Now().In(h.Location)
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.Location)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	expenses, total, err := store.ExpensesForDay(r.Context(), h.DB, day, h.Location)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"date":     day.Format("2006-01-02"),
		"count":    len(expenses),
		"total":    total,
		"expenses": expenses,
	})
}

// Delete handles DELETE /api/expenses/{id}.
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := store.DeleteExpense(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}
