// backend-go/internal/repository/catalog_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

// CatalogRepository stores the product catalog the server can serve itself.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.CatalogProduct, error)
	ListCategories(ctx context.Context) ([]string, error)
	UpsertProducts(ctx context.Context, products []domain.CatalogProduct) (int, error)
	EnsureSchema(ctx context.Context) error
}
