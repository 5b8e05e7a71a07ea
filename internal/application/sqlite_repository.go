package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

// Create inserts a new application record. A fresh record's credentials count
// as updated at creation time.
func (r *SQLiteRepository) Create(ctx context.Context, a *Application) error {
	now := time.Now().UTC()
	if a.ClientCredentialsUpdatedAt.IsZero() {
		a.ClientCredentialsUpdatedAt = now
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO applications
			(name, homepage, description, client_id, client_secret, client_credentials_updated_at, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Homepage, a.Description, a.ClientID, a.ClientSecret,
		a.ClientCredentialsUpdatedAt, a.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted application id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetByID retrieves a single application by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Application, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetByClientID retrieves a single application by its public client id.
func (r *SQLiteRepository) GetByClientID(ctx context.Context, clientID string) (*Application, error) {
	return r.get(ctx, `WHERE client_id = ?`, clientID)
}

func (r *SQLiteRepository) get(ctx context.Context, where string, arg any) (*Application, error) {
	query := `
		SELECT id, name, homepage, description, client_id, client_secret,
		       client_credentials_updated_at, status, created_at, updated_at
		FROM applications ` + where

	var a Application
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.Homepage, &a.Description,
		&a.ClientID, &a.ClientSecret, &a.ClientCredentialsUpdatedAt,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("querying application: %w", err)
	}

	return &a, nil
}

// List retrieves applications ordered by id.
func (r *SQLiteRepository) List(ctx context.Context, f ListFilter) ([]Application, error) {
	query := `
		SELECT id, name, homepage, description, client_id, client_secret,
		       client_credentials_updated_at, status, created_at, updated_at
		FROM applications`

	if f.OrderBy == "asc" {
		query += ` ORDER BY id ASC`
	} else {
		query += ` ORDER BY id DESC`
	}
	query += ` LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		var a Application
		err := rows.Scan(
			&a.ID, &a.Name, &a.Homepage, &a.Description,
			&a.ClientID, &a.ClientSecret, &a.ClientCredentialsUpdatedAt,
			&a.Status, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}

	return apps, nil
}

// Update sets the name, homepage and description of an application.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, name, homepage, description string) error {
	return r.exec(ctx,
		`UPDATE applications SET name = ?, homepage = ?, description = ?, updated_at = ? WHERE id = ?`,
		name, homepage, description, time.Now().UTC(), id,
	)
}

// UpdateCredentials replaces the client id/secret pair and stamps the
// rotation time.
func (r *SQLiteRepository) UpdateCredentials(ctx context.Context, id int64, creds Credentials) error {
	now := time.Now().UTC()
	return r.exec(ctx,
		`UPDATE applications
		 SET client_id = ?, client_secret = ?, client_credentials_updated_at = ?, updated_at = ?
		 WHERE id = ?`,
		creds.ClientID, creds.ClientSecret, now, now, id,
	)
}

// UpdateStatus changes the status of an application.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.exec(ctx, `UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
}

// Delete removes an application by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM applications WHERE id = ?`, id)
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing application update: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
