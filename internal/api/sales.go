package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/store"
)

// SalesHandler handles sale endpoints.
type SalesHandler struct {
	DB       *sql.DB
	Location *time.Location
}

// Create handles POST /api/sales. The body is an ordered list of
// {inventory_id, quantity} lines applied all-or-nothing.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var lines []model.SaleLine
	if err := decodeJSON(r, &lines); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := store.CreateSale(r.Context(), h.DB, lines, callerID(r.Context()))
	if err != nil {
		storeError(w, err)
		return
	}

	itemsSold := make([]model.SaleLine, 0, len(sale.Items))
	for _, si := range sale.Items {
		itemsSold = append(itemsSold, model.SaleLine{InventoryID: si.InventoryID, Quantity: si.Quantity})
	}

	slog.Info("sale committed", "sale", sale.ID, "total", sale.Total, "lines", len(sale.Items))
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message":    "Sale recorded successfully",
		"sale_id":    sale.ID,
		"total":      sale.Total,
		"items_sold": itemsSold,
	})
}

// List handles GET /api/sales: all sales with nested items, newest first.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := store.ListSales(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, sales)
}

// ListForDay handles GET /api/sales/day?date=YYYY-MM-DD. A missing date
// means today in the reporting timezone.
func (h *SalesHandler) ListForDay(w http.ResponseWriter, r *http.Request) {
	day := time.Now().In(h.Location)
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.Location)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	sales, err := store.SalesForDay(r.Context(), h.DB, day, h.Location)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"date":  day.Format("2006-01-02"),
		"items": sales,
	})
}
