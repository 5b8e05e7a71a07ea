package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteRepository implements Repository on a database/sql handle opened with
// the modernc.org/sqlite driver.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository backed by the given handle.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new user record.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email_address, password_hash, role, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.EmailAddress, u.PasswordHash, u.Role, u.Status, now, now,
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted user id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetByID retrieves a single user by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email_address, password_hash, role, status, created_at, updated_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByEmailAddress retrieves a single user by email address.
func (r *SQLiteRepository) GetByEmailAddress(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email_address, password_hash, role, status, created_at, updated_at
		 FROM users WHERE email_address = ?`, email)
	return scanUser(row)
}

// List retrieves users matching the filter, ordered by id.
func (r *SQLiteRepository) List(ctx context.Context, f ListFilter) ([]User, error) {
	query := `SELECT id, name, email_address, password_hash, role, status, created_at, updated_at FROM users`

	var args []any
	switch {
	case f.Role != nil:
		query += ` WHERE role = ?`
		args = append(args, *f.Role)
	case f.Status != nil:
		query += ` WHERE status = ?`
		args = append(args, *f.Status)
	}

	if f.OrderBy == "asc" {
		query += ` ORDER BY id ASC`
	} else {
		query += ` ORDER BY id DESC`
	}

	query += ` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(
			&u.ID, &u.Name, &u.EmailAddress, &u.PasswordHash,
			&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

// Update sets the name and email address of a user.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, name, email string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email_address = ?, updated_at = ? WHERE id = ?`,
		name, email, time.Now().UTC(), id,
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return requireRow(result)
}

// UpdatePassword replaces the stored password hash of a user.
func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, time.Now().UTC(), id)
}

// UpdateRole changes the role of a user.
func (r *SQLiteRepository) UpdateRole(ctx context.Context, id int64, role Role) error {
	return r.exec(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now().UTC(), id)
}

// UpdateStatus changes the status of a user.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.exec(ctx, `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
}

// Delete removes a user by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing user update: %w", err)
	}
	return requireRow(result)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.EmailAddress, &u.PasswordHash,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// The modernc driver reports constraint failures as plain errors; matching on
// the message is the documented way to detect them without cgo sqlite3 types.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
