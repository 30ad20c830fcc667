package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/store"
)

// DashboardHandler serves the admin dashboard aggregates.
type DashboardHandler struct {
	DB       *sql.DB
	Location *time.Location
}

// Get handles GET /api/admin/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, chart, recent, err := store.Dashboard(r.Context(), h.DB, time.Now(), h.Location)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	if recent == nil {
		recent = []model.Sale{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"summary":      summary,
		"sales_chart":  chart,
		"recent_sales": recent,
	})
}
