package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jasanvivian/solepos/internal/model"
)

const userColumns = `id, name, email, phone_number, password_hash, role, theme, notifications, created_at, updated_at`

// CreateUser creates a new user.
func CreateUser(ctx context.Context, db *sql.DB, name, email, phoneNumber, passwordHash, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone_number, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		name, email, phoneNumber, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash,
		&u.Role, &u.Theme, &u.Notifications, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail returns a user by email, or nil if it does not exist.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetUserByPhone returns a user by phone number, or nil if it does not exist.
func GetUserByPhone(ctx context.Context, db *sql.DB, phoneNumber string) (*model.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone_number = ?`, phoneNumber))
}

// ListUsers returns all users, oldest first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash,
			&u.Role, &u.Theme, &u.Notifications, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile updates a user's own profile fields. Empty values are kept.
func UpdateProfile(ctx context.Context, db *sql.DB, id int64, name, email, phoneNumber string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET
		     name = COALESCE(NULLIF(?, ''), name),
		     email = COALESCE(NULLIF(?, ''), email),
		     phone_number = COALESCE(NULLIF(?, ''), phone_number),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, email, phoneNumber, id,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// UpdatePreferences sets a user's theme and notification preference.
func UpdatePreferences(ctx context.Context, db *sql.DB, id int64, theme string, notifications bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET theme = ?, notifications = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		theme, notifications, id,
	)
	if err != nil {
		return fmt.Errorf("updating preferences: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser removes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
