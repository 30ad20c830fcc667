package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
)

// AddOrUpdateItem upserts an item keyed on name. If an item with that name
// exists, quantity is added to current stock and price is overwritten with
// the new value; otherwise a new item is created. Callers relying on price
// history must snapshot it first, as the previous price is not kept on the
// item row (the audit trail records the change).
func AddOrUpdateItem(ctx context.Context, db *sql.DB, name string, price float64, quantity int, userID *int64) (*model.Item, error) {
	if name == "" || price < 0 || quantity < 0 {
		return nil, fmt.Errorf("%w: name, price and quantity are required", ErrInvalidInput)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	existing := &model.Item{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, price, quantity FROM inventory WHERE name = ?`, name,
	).Scan(&existing.ID, &existing.Name, &existing.Price, &existing.Quantity)
	switch {
	case err == sql.ErrNoRows:
		result, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (name, price, quantity) VALUES (?, ?, ?)`,
			name, price, quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("creating item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting item id: %w", err)
		}
		if err := appendAudit(ctx, tx, id, userID, model.ActionCreate, "quantity", "", strconv.Itoa(quantity), now); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing item creation: %w", err)
		}
		return GetItem(ctx, db, id)

	case err != nil:
		return nil, fmt.Errorf("looking up item by name: %w", err)
	}

	newQuantity := existing.Quantity + quantity
	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET price = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		price, newQuantity, existing.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if quantity != 0 {
		if err := appendAudit(ctx, tx, existing.ID, userID, model.ActionUpdate, "quantity",
			strconv.Itoa(existing.Quantity), strconv.Itoa(newQuantity), now); err != nil {
			return nil, err
		}
	}
	if price != existing.Price {
		if err := appendAudit(ctx, tx, existing.ID, userID, model.ActionUpdate, "price",
			formatPrice(existing.Price), formatPrice(price), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return GetItem(ctx, db, existing.ID)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, price, quantity, created_at, updated_at FROM inventory WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns one page of items, newest first, optionally filtered by a
// case-insensitive name substring, plus the total match count for pagination.
func ListItems(ctx context.Context, db *sql.DB, search string, page, perPage int) ([]model.Item, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	where := ""
	var args []any
	if search != "" {
		where = ` WHERE name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	args = append(args, perPage, (page-1)*perPage)
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, price, quantity, created_at, updated_at FROM inventory`+
			where+` ORDER BY id DESC LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// AllItems returns every item, oldest first. Used by the export endpoints.
func AllItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, price, quantity, created_at, updated_at FROM inventory ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem applies a partial update to an item. Nil fields are left
// unchanged. Every changed field gets its own audit entry.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name *string, price *float64, quantity *int, userID *int64) (*model.Item, error) {
	if price != nil && *price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if quantity != nil && *quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current := &model.Item{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, price, quantity FROM inventory WHERE id = ?`, id,
	).Scan(&current.ID, &current.Name, &current.Price, &current.Quantity)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	newName, newPrice, newQuantity := current.Name, current.Price, current.Quantity
	if name != nil && *name != "" {
		newName = *name
	}
	if price != nil {
		newPrice = *price
	}
	if quantity != nil {
		newQuantity = *quantity
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET name = ?, price = ?, quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newName, newPrice, newQuantity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	now := time.Now().UTC()
	if newName != current.Name {
		if err := appendAudit(ctx, tx, id, userID, model.ActionUpdate, "name", current.Name, newName, now); err != nil {
			return nil, err
		}
	}
	if newPrice != current.Price {
		if err := appendAudit(ctx, tx, id, userID, model.ActionUpdate, "price",
			formatPrice(current.Price), formatPrice(newPrice), now); err != nil {
			return nil, err
		}
	}
	if newQuantity != current.Quantity {
		if err := appendAudit(ctx, tx, id, userID, model.ActionUpdate, "quantity",
			strconv.Itoa(current.Quantity), strconv.Itoa(newQuantity), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return GetItem(ctx, db, id)
}

// DeleteItem removes an item, appending a DELETE audit entry with the last
// known quantity before the row disappears.
func DeleteItem(ctx context.Context, db *sql.DB, id int64, userID *int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var quantity int
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM inventory WHERE id = ?`, id).Scan(&quantity)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("getting item: %w", err)
	}

	if err := appendAudit(ctx, tx, id, userID, model.ActionDelete, "quantity",
		strconv.Itoa(quantity), "", time.Now().UTC()); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
