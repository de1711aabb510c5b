package client

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

type CatalogClient struct {
	c httpClient
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{c: newHTTPClient("catalog", baseURL, timeout)}
}

// Products fetches the full product list from /data/products.
func (cc *CatalogClient) Products(ctx context.Context) ([]domain.CatalogProduct, error) {
	var products []domain.CatalogProduct
	if err := cc.c.do(ctx, http.MethodGet, "/data/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]domain.CatalogProduct, 0)
	}
	return products, nil
}
