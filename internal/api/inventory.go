package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/report"
	"github.com/jasanvivian/solepos/internal/store"
)

// InventoryHandler handles inventory endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type addItemRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type updateItemRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

// List handles GET /api/inventory with optional name search and pagination.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("name")

	page, perPage := 1, 10
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "invalid pagination parameters")
			return
		}
		page = n
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "invalid pagination parameters")
			return
		}
		perPage = n
	}

	items, total, err := store.ListItems(r.Context(), h.DB, search, page, perPage)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	pages := (total + perPage - 1) / perPage
	jsonResponse(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    pages,
	})
}

// Add handles POST /api/inventory: upsert-by-name.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Price == nil || req.Quantity == nil {
		jsonError(w, http.StatusBadRequest, "missing fields")
		return
	}

	item, err := store.AddOrUpdateItem(r.Context(), h.DB, req.Name, *req.Price, *req.Quantity, callerID(r.Context()))
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("inventory upserted", "item", item.Name, "quantity", item.Quantity, "price", item.Price)
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PATCH /api/inventory/{id} with a partial body.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, req.Name, req.Price, req.Quantity, callerID(r.Context()))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id, callerID(r.Context())); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// ImportExcel handles POST /api/inventory/import/excel. Malformed rows are
// skipped; valid rows are applied with the same upsert-by-name semantics as
// manual entry.
func (h *InventoryHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	// Limit uploads to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	rows, skipped, err := report.ParseInventoryXLSX(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := callerID(r.Context())
	imported := 0
	for _, row := range rows {
		if _, err := store.AddOrUpdateItem(r.Context(), h.DB, row.Name, row.Price, row.Quantity, userID); err != nil {
			slog.Warn("import row failed", "item", row.Name, "error", err)
			skipped++
			continue
		}
		imported++
	}

	slog.Info("inventory imported", "rows", imported, "skipped", skipped)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":  "Inventory imported successfully",
		"imported": imported,
		"skipped":  skipped,
	})
}

// Export handles GET /api/inventory/export/{type} for excel and csv.
func (h *InventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	fileType := strings.ToLower(chi.URLParam(r, "type"))

	items, err := store.AllItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	switch fileType {
	case "excel":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
		if err := report.WriteInventoryXLSX(w, items); err != nil {
			slog.Error("exporting inventory xlsx", "error", err)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
		if err := report.WriteInventoryCSV(w, items); err != nil {
			slog.Error("exporting inventory csv", "error", err)
		}
	default:
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid file type %q", fileType))
	}
}
