package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
)

// DashboardSummary holds the admin dashboard KPIs.
type DashboardSummary struct {
	TotalSalesToday int     `json:"total_sales_today"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalInventory  int     `json:"total_inventory"`
	TotalExpenses   float64 `json:"total_expenses"`
}

// SalesChartPoint is one day's sales total for the dashboard chart.
type SalesChartPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// Dashboard aggregates the admin dashboard data: today's sale count,
// revenue and expenses since the start of the current week (Monday), total
// inventory items, per-day sales totals for the last 7 calendar days, and
// the 5 most recent sales. Day boundaries follow loc.
func Dashboard(ctx context.Context, db *sql.DB, now time.Time, loc *time.Location) (DashboardSummary, []SalesChartPoint, []model.Sale, error) {
	var summary DashboardSummary

	todayStart, todayEnd := DayWindow(now.In(loc), loc)

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sales WHERE created_at >= ? AND created_at < ?`,
		todayStart, todayEnd,
	).Scan(&summary.TotalSalesToday)
	if err != nil {
		return summary, nil, nil, fmt.Errorf("counting today's sales: %w", err)
	}

	local := now.In(loc)
	weekday := (int(local.Weekday()) + 6) % 7 // Monday = 0
	weekStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -weekday).UTC()

	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM sales WHERE created_at >= ?`, weekStart,
	).Scan(&summary.TotalRevenue)
	if err != nil {
		return summary, nil, nil, fmt.Errorf("summing week revenue: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&summary.TotalInventory)
	if err != nil {
		return summary, nil, nil, fmt.Errorf("counting inventory: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE created_at >= ?`, weekStart,
	).Scan(&summary.TotalExpenses)
	if err != nil {
		return summary, nil, nil, fmt.Errorf("summing week expenses: %w", err)
	}

	chart, err := salesChart(ctx, db, local, loc)
	if err != nil {
		return summary, nil, nil, err
	}

	recent, err := recentSales(ctx, db, 5)
	if err != nil {
		return summary, nil, nil, err
	}

	return summary, chart, recent, nil
}

// salesChart buckets the last 7 calendar days of sales by local date.
// Bucketing happens in Go so the reporting timezone is respected regardless
// of how SQLite would interpret date().
func salesChart(ctx context.Context, db *sql.DB, local time.Time, loc *time.Location) ([]SalesChartPoint, error) {
	firstDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -6)
	rangeStart := firstDay.UTC()
	rangeEnd := firstDay.AddDate(0, 0, 7).UTC()

	rows, err := db.QueryContext(ctx,
		`SELECT total, created_at FROM sales WHERE created_at >= ? AND created_at < ?`,
		rangeStart, rangeEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sales chart: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var total float64
		var createdAt time.Time
		if err := rows.Scan(&total, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning sales chart row: %w", err)
		}
		totals[createdAt.In(loc).Format("2006-01-02")] += total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chart := make([]SalesChartPoint, 0, 7)
	for i := 0; i < 7; i++ {
		date := firstDay.AddDate(0, 0, i).Format("2006-01-02")
		chart = append(chart, SalesChartPoint{Date: date, Total: totals[date]})
	}
	return chart, nil
}

func recentSales(ctx context.Context, db *sql.DB, limit int) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, total, created_at FROM sales ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent sales: %w", err)
	}
	defer rows.Close()

	return scanSalesWithItems(ctx, db, rows)
}
