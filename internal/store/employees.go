package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jasanvivian/solepos/internal/model"
)

// CreateEmployee creates a new employee record.
func CreateEmployee(ctx context.Context, db *sql.DB, name, phoneNumber, gender string) (*model.Employee, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO employees (name, phone_number, gender) VALUES (?, ?, ?)`,
		name, phoneNumber, gender,
	)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting employee id: %w", err)
	}

	return GetEmployee(ctx, db, id)
}

// GetEmployee returns an employee by ID, or nil if it does not exist.
func GetEmployee(ctx context.Context, db *sql.DB, id int64) (*model.Employee, error) {
	e := &model.Employee{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, phone_number, gender, created_at, updated_at FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.PhoneNumber, &e.Gender, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns all employees, oldest first.
func ListEmployees(ctx context.Context, db *sql.DB) ([]model.Employee, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, phone_number, gender, created_at, updated_at FROM employees ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.PhoneNumber, &e.Gender, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateEmployee applies a partial update. Empty values are kept.
func UpdateEmployee(ctx context.Context, db *sql.DB, id int64, name, phoneNumber, gender string) (*model.Employee, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE employees SET
		     name = COALESCE(NULLIF(?, ''), name),
		     phone_number = COALESCE(NULLIF(?, ''), phone_number),
		     gender = COALESCE(NULLIF(?, ''), gender),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, phoneNumber, gender, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("verifying employee update: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}
	return GetEmployee(ctx, db, id)
}

// DeleteEmployee removes an employee record.
func DeleteEmployee(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("verifying employee deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}
	return nil
}
