package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/repository"
	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/sheet"
)

// dbtx is the subset of *pgxpool.Pool the repository needs.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type OrderSheetRepository struct {
	db dbtx
}

var _ repository.OrderSheetRepository = (*OrderSheetRepository)(nil)

func NewOrderSheetRepository(db dbtx) *OrderSheetRepository {
	return &OrderSheetRepository{db: db}
}

// Save inserts s. A sheet already stored under the same container and name
// is left untouched and sheet.ErrSheetExists is returned.
func (r *OrderSheetRepository) Save(ctx context.Context, s *sheet.OrderSheet) error {
	if s == nil {
		return fmt.Errorf("order sheet is nil")
	}

	const query = `
		INSERT INTO order_sheets (id, container, name, order_id, order_key, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (container, name) DO NOTHING;
	`

	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query,
		s.ID,
		s.Container,
		s.Name,
		s.OrderID,
		s.OrderKey,
		s.Body,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order sheet %s/%s: %w", s.Container, s.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", s.Container, s.Name, sheet.ErrSheetExists)
	}
	return nil
}

// FindByName returns nil, nil when no sheet matches.
func (r *OrderSheetRepository) FindByName(ctx context.Context, container, name string) (*sheet.OrderSheet, error) {
	const query = `
		SELECT id, container, name, order_id, order_key, body, created_at
		FROM order_sheets
		WHERE container = $1 AND name = $2;
	`
	var s sheet.OrderSheet
	err := r.db.QueryRow(ctx, query, container, name).Scan(
		&s.ID,
		&s.Container,
		&s.Name,
		&s.OrderID,
		&s.OrderKey,
		&s.Body,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order sheet %s/%s: %w", container, name, err)
	}
	return &s, nil
}

func (r *OrderSheetRepository) ensureTable(ctx context.Context) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS order_sheets (
			id UUID PRIMARY KEY,
			container TEXT NOT NULL,
			name TEXT NOT NULL,
			order_id BIGINT NOT NULL,
			order_key TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (container, name)
		);
	`
	if _, err := r.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure order_sheets table: %w", err)
	}
	return nil
}
