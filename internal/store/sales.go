package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
)

// CreateSale atomically applies an ordered list of sale lines: validates
// stock, decrements inventory, records the sale with its line items, and
// appends one SALE audit entry per decrement. Either every line is applied
// and one sale is committed, or nothing is persisted.
//
// Duplicate inventory ids are processed as independent lines; each line
// checks against the in-transaction quantity, so two lines for the same item
// consume cumulatively. userID attributes the audit entries and may be nil.
func CreateSale(ctx context.Context, db *sql.DB, lines []model.SaleLine, userID *int64) (*model.Sale, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: sale must contain at least one line", ErrInvalidInput)
	}
	for i, line := range lines {
		if line.InventoryID <= 0 {
			return nil, fmt.Errorf("%w: line %d is missing an inventory id", ErrInvalidInput, i+1)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", ErrInvalidInput, i+1)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	type applied struct {
		line        model.SaleLine
		price       float64
		oldQuantity int
		newQuantity int
	}

	var total float64
	appliedLines := make([]applied, 0, len(lines))

	for _, line := range lines {
		var price float64
		var quantity int
		err := tx.QueryRowContext(ctx,
			`SELECT price, quantity FROM inventory WHERE id = ?`, line.InventoryID,
		).Scan(&price, &quantity)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, line.InventoryID)
		}
		if err != nil {
			return nil, fmt.Errorf("looking up item %d: %w", line.InventoryID, err)
		}

		if quantity < line.Quantity {
			return nil, fmt.Errorf("%w: item %d has %d, requested %d",
				ErrInsufficientStock, line.InventoryID, quantity, line.Quantity)
		}

		// Conditional decrement with affected-row verification, so a write
		// that raced past the check above cannot drive stock negative.
		result, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND quantity >= ?`,
			line.Quantity, line.InventoryID, line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrementing stock for item %d: %w", line.InventoryID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("verifying stock decrement for item %d: %w", line.InventoryID, err)
		}
		if affected != 1 {
			return nil, fmt.Errorf("%w: item %d was modified concurrently", ErrConflict, line.InventoryID)
		}

		total += price * float64(line.Quantity)
		appliedLines = append(appliedLines, applied{
			line:        line,
			price:       price,
			oldQuantity: quantity,
			newQuantity: quantity - line.Quantity,
		})
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO sales (total, created_at) VALUES (?, ?)`, total, now,
	)
	if err != nil {
		return nil, fmt.Errorf("recording sale: %w", err)
	}
	saleID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sale id: %w", err)
	}

	for _, a := range appliedLines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, inventory_id, quantity, price) VALUES (?, ?, ?, ?)`,
			saleID, a.line.InventoryID, a.line.Quantity, a.price,
		)
		if err != nil {
			return nil, fmt.Errorf("recording sale line for item %d: %w", a.line.InventoryID, err)
		}

		if err := appendAudit(ctx, tx, a.line.InventoryID, userID, model.ActionSale, "quantity",
			strconv.Itoa(a.oldQuantity), strconv.Itoa(a.newQuantity), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	return GetSale(ctx, db, saleID)
}

// GetSale returns a sale with its line items, or nil if it does not exist.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	s := &model.Sale{}
	err := db.QueryRowContext(ctx,
		`SELECT id, total, created_at FROM sales WHERE id = ?`, id,
	).Scan(&s.ID, &s.Total, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}

	items, err := saleItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// ListSales returns all sales with nested line items, newest first.
func ListSales(ctx context.Context, db *sql.DB) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, total, created_at FROM sales ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	return scanSalesWithItems(ctx, db, rows)
}

// SalesForDay returns sales committed within the given calendar day in loc,
// newest first, with nested line items.
func SalesForDay(ctx context.Context, db *sql.DB, day time.Time, loc *time.Location) ([]model.Sale, error) {
	start, end := DayWindow(day, loc)

	rows, err := db.QueryContext(ctx,
		`SELECT id, total, created_at FROM sales
		 WHERE created_at >= ? AND created_at < ?
		 ORDER BY created_at DESC, id DESC`, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sales for day: %w", err)
	}
	defer rows.Close()

	return scanSalesWithItems(ctx, db, rows)
}

func scanSalesWithItems(ctx context.Context, db *sql.DB, rows *sql.Rows) ([]model.Sale, error) {
	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		if err := rows.Scan(&s.ID, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := saleItems(ctx, db, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func saleItems(ctx context.Context, db *sql.DB, saleID int64) ([]model.SaleItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT si.id, si.sale_id, si.inventory_id, si.quantity, si.price,
		        COALESCE(i.name, 'Unknown') AS item_name
		 FROM sale_items si
		 LEFT JOIN inventory i ON i.id = si.inventory_id
		 WHERE si.sale_id = ?
		 ORDER BY si.id`, saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sale items: %w", err)
	}
	defer rows.Close()

	items := []model.SaleItem{}
	for rows.Next() {
		var si model.SaleItem
		if err := rows.Scan(&si.ID, &si.SaleID, &si.InventoryID, &si.Quantity, &si.Price, &si.ItemName); err != nil {
			return nil, fmt.Errorf("scanning sale item: %w", err)
		}
		items = append(items, si)
	}
	return items, rows.Err()
}
