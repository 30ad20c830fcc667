package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jasanvivian/solepos/internal/model"
)

// CreateExpense records an expense. createdAt lets callers back-date an
// entry; the zero value means now.
func CreateExpense(ctx context.Context, db *sql.DB, description string, amount float64, createdAt time.Time) (*model.Expense, error) {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, created_at) VALUES (?, ?, ?)`,
		description, amount, createdAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting expense id: %w", err)
	}

	e := &model.Expense{}
	var description2 sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT id, description, amount, created_at FROM expenses WHERE id = ?`, id,
	).Scan(&e.ID, &description2, &e.Amount, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	e.Description = description2.String
	return e, nil
}

// ListExpenses returns all expenses, newest first.
func ListExpenses(ctx context.Context, db *sql.DB) ([]model.Expense, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, description, amount, created_at FROM expenses ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ExpensesForDay returns expenses within the given calendar day in loc,
// plus their total amount.
func ExpensesForDay(ctx context.Context, db *sql.DB, day time.Time, loc *time.Location) ([]model.Expense, float64, error) {
	start, end := DayWindow(day, loc)

	rows, err := db.QueryContext(ctx,
		`SELECT id, description, amount, created_at FROM expenses
		 WHERE created_at >= ? AND created_at < ?
		 ORDER BY created_at DESC, id DESC`, start, end,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing expenses for day: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return expenses, total, nil
}

// DeleteExpense removes an expense.
func DeleteExpense(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("verifying expense deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", ErrNotFound, id)
	}
	return nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		var description sql.NullString
		if err := rows.Scan(&e.ID, &description, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		e.Description = description.String
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
