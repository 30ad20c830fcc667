package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx so audit rows can be
// appended inside or outside an enclosing transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// appendAudit inserts one append-only audit row. Audit rows are never
// updated or deleted afterwards.
func appendAudit(ctx context.Context, e execer, inventoryID int64, userID *int64, action, field, oldValue, newValue string, at time.Time) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO inventory_audit (inventory_id, user_id, action, field_changed, old_value, new_value, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inventoryID, userID, action, field, oldValue, newValue, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// DayWindow converts a calendar day in loc to its [start, end) UTC range.
// The window runs from local midnight to the next local midnight, so an
// entry at local 23:59 belongs to that day even if its UTC date differs.
func DayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// AuditsForDay returns audit entries whose timestamp falls within the given
// calendar day in loc, newest first, plus a count grouped by action. An
// empty action queries all actions.
func AuditsForDay(ctx context.Context, db *sql.DB, day time.Time, action string, loc *time.Location) ([]model.AuditEntry, map[string]int, error) {
	start, end := DayWindow(day, loc)

	query := `SELECT a.id, a.inventory_id, a.user_id, a.action, a.field_changed,
	                 a.old_value, a.new_value, a.timestamp,
	                 COALESCE(i.name, 'Unknown') AS item_name,
	                 COALESCE(u.name, 'System') AS user_name
	          FROM inventory_audit a
	          LEFT JOIN inventory i ON i.id = a.inventory_id
	          LEFT JOIN users u ON u.id = a.user_id
	          WHERE a.timestamp >= ? AND a.timestamp < ?`
	args := []any{start, end}

	if action != "" {
		query += ` AND a.action = ?`
		args = append(args, action)
	}
	query += ` ORDER BY a.timestamp DESC, a.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	byAction := make(map[string]int)
	for rows.Next() {
		var a model.AuditEntry
		var field, oldValue, newValue sql.NullString
		if err := rows.Scan(&a.ID, &a.InventoryID, &a.UserID, &a.Action, &field,
			&oldValue, &newValue, &a.Timestamp, &a.ItemName, &a.UserName); err != nil {
			return nil, nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		a.FieldChanged = field.String
		a.OldValue = oldValue.String
		a.NewValue = newValue.String
		entries = append(entries, a)
		byAction[a.Action]++
	}
	return entries, byAction, rows.Err()
}
