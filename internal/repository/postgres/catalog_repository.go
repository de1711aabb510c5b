package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/repository"
)

const catalogSchema = `
	CREATE TABLE IF NOT EXISTS catalog_products (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		category        TEXT NOT NULL,
		remaining_stock INTEGER NOT NULL DEFAULT 0 CHECK (remaining_stock >= 0),
		supplier_id     TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("error creating catalog schema: %w", err)
	}
	return nil
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	query := `
		SELECT id, name, category, remaining_stock, supplier_id
		FROM catalog_products
		ORDER BY id
	`

	products := make([]domain.CatalogProduct, 0)
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing catalog products: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM catalog_products
		ORDER BY category
	`

	categories := make([]string, 0)
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return categories, nil
}

// UpsertProducts writes products in one transaction and returns how many were written.
func (r *catalogRepository) UpsertProducts(ctx context.Context, products []domain.CatalogProduct) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	written := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO catalog_products (
				id, name, category, remaining_stock, supplier_id
			) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				remaining_stock = EXCLUDED.remaining_stock,
				supplier_id = EXCLUDED.supplier_id,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range products {
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Category, p.RemainingStock, p.SupplierID); err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
