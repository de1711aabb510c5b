package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/catalog"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/reorder"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	ErrProductNotFound  = errors.New("product not found in catalog")
	ErrCatalogNotServed = errors.New("catalog is not served from the database")
)

// CatalogSource supplies the raw product list. client.CatalogClient and
// RepositorySource both satisfy it.
type CatalogSource interface {
	Products(ctx context.Context) ([]domain.CatalogProduct, error)
}

// RepositorySource reads the catalog from the database.
type RepositorySource struct {
	Repo repository.CatalogRepository
}

func (r RepositorySource) Products(ctx context.Context) ([]domain.CatalogProduct, error) {
	return r.Repo.ListProducts(ctx)
}

type CatalogService struct {
	source CatalogSource
	repo   repository.CatalogRepository
	store  *dashboard.Store
}

// NewCatalogService wires the session catalog to source. repo is optional and
// only backs ServedProducts and ServedCategories.
func NewCatalogService(source CatalogSource, repo repository.CatalogRepository, store *dashboard.Store) *CatalogService {
	return &CatalogService{source: source, repo: repo, store: store}
}

// Load refreshes the session catalog from the source.
func (s *CatalogService) Load(ctx context.Context) error {
	products, err := s.source.Products(ctx)
	if err != nil {
		if _, dErr := s.store.Dispatch(dashboard.CatalogFailed{Err: err}); dErr != nil {
			log.Error().Err(dErr).Msg("catalog: failed to record load failure")
		}
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	entries := catalog.FromProducts(products)
	if _, err := s.store.Dispatch(dashboard.CatalogLoaded{Entries: entries}); err != nil {
		return err
	}

	log.Info().Int("products", len(entries)).Msg("catalog: loaded")
	return nil
}

// EnsureLoaded loads the catalog once; later calls are no-ops until a load succeeds.
func (s *CatalogService) EnsureLoaded(ctx context.Context) error {
	if s.store.Snapshot().CatalogLoaded {
		return nil
	}
	return s.Load(ctx)
}

func (s *CatalogService) Categories() []string {
	return s.store.Snapshot().Categories
}

func (s *CatalogService) Products(category string) []domain.CatalogEntry {
	return catalog.InCategory(s.store.Snapshot().Catalog, category)
}

func (s *CatalogService) QuickProducts() []domain.CatalogEntry {
	return s.store.Snapshot().QuickProducts
}

// Suggest returns the suggested reorder quantity for productID. An empty id
// means no selection and suggests 0.
func (s *CatalogService) Suggest(productID string) (int, error) {
	if productID == "" {
		return reorder.Advise(nil), nil
	}
	entry := catalog.Find(s.store.Snapshot().Catalog, productID)
	if entry == nil {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return reorder.Advise(entry), nil
}

// ServedProducts returns the catalog stored in the database in its wire shape.
func (s *CatalogService) ServedProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	if s.repo == nil {
		return nil, ErrCatalogNotServed
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]domain.CatalogProduct, 0)
	}
	return products, nil
}

// ServedCategories returns the distinct categories stored in the database.
func (s *CatalogService) ServedCategories(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return nil, ErrCatalogNotServed
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = make([]string, 0)
	}
	return cats, nil
}
