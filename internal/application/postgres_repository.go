package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new application record. A fresh record's credentials count
// as updated at creation time.
func (r *PostgresRepository) Create(ctx context.Context, a *Application) error {
	if a.ClientCredentialsUpdatedAt.IsZero() {
		a.ClientCredentialsUpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO applications
			(name, homepage, description, client_id, client_secret, client_credentials_updated_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.Name,
		a.Homepage,
		a.Description,
		a.ClientID,
		a.ClientSecret,
		a.ClientCredentialsUpdatedAt,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}

	return nil
}

// GetByID retrieves a single application by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Application, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByClientID retrieves a single application by its public client id.
func (r *PostgresRepository) GetByClientID(ctx context.Context, clientID string) (*Application, error) {
	return r.get(ctx, `WHERE client_id = $1`, clientID)
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*Application, error) {
	query := `
		SELECT id, name, homepage, description, client_id, client_secret,
		       client_credentials_updated_at, status, created_at, updated_at
		FROM applications ` + where

	var a Application
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.Homepage, &a.Description,
		&a.ClientID, &a.ClientSecret, &a.ClientCredentialsUpdatedAt,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("querying application: %w", err)
	}

	return &a, nil
}

// List retrieves applications ordered by id.
func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]Application, error) {
	query := `
		SELECT id, name, homepage, description, client_id, client_secret,
		       client_credentials_updated_at, status, created_at, updated_at
		FROM applications`

	if f.OrderBy == "asc" {
		query += ` ORDER BY id ASC`
	} else {
		query += ` ORDER BY id DESC`
	}
	query += ` OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, f.Offset, f.Limit)
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
func (r *PostgresRepository) Update(ctx context.Context, id int64, name, homepage, description string) error {
	return r.exec(ctx,
		`UPDATE applications SET name = $2, homepage = $3, description = $4, updated_at = NOW() WHERE id = $1`,
		id, name, homepage, description,
	)
}

// UpdateCredentials replaces the client id/secret pair and stamps the
// rotation time.
func (r *PostgresRepository) UpdateCredentials(ctx context.Context, id int64, creds Credentials) error {
	return r.exec(ctx,
		`UPDATE applications
		 SET client_id = $2, client_secret = $3, client_credentials_updated_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, creds.ClientID, creds.ClientSecret,
	)
}

// UpdateStatus changes the status of an application.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.exec(ctx, `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}

// Delete removes an application by id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing application update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
