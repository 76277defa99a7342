package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myfacture/backend/pkg/facture"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements facture.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) facture.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) facture.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return &facture.DatabaseError{Op: operation, Err: fmt.Errorf("required field %s is missing", pgErr.ColumnName)}
		case "42P01": // undefined_table
			return &facture.DatabaseError{Op: operation, Err: fmt.Errorf("table does not exist - database migration required")}
		default:
			return &facture.DatabaseError{Op: operation, Err: fmt.Errorf("%s (code: %s)", pgErr.Message, pgErr.Code)}
		}
	}

	return &facture.DatabaseError{Op: operation, Err: err}
}

// CreateFacture inserts one row and assigns the generated id
func (r *Repository) CreateFacture(ctx context.Context, f *facture.Facture) error {
	query := `
		INSERT INTO factures (file_path, price, category, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		f.FilePath, f.Price, f.Category, f.Status, f.CreatedAt).Scan(&f.ID)
	if err != nil {
		return r.handlePostgresError("create facture", err)
	}

	return nil
}

// ListFactures returns every row. Deliberately no ORDER BY: listing
// order is unspecified.
func (r *Repository) ListFactures(ctx context.Context) ([]*facture.Facture, error) {
	query := `
		SELECT id, file_path, price, category, status, created_at
		FROM factures`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list factures", err)
	}
	defer rows.Close()

	var factures []*facture.Facture
	for rows.Next() {
		var f facture.Facture
		if err := rows.Scan(&f.ID, &f.FilePath, &f.Price, &f.Category, &f.Status, &f.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan facture", err)
		}
		factures = append(factures, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list factures", err)
	}

	return factures, nil
}
