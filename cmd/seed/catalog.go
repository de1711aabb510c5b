package main

import (
	"fmt"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/importer"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/retail-forecast/backend-go/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

func seedCatalog(c *cli.Context) error {
	ctx := c.Context

	path := c.String("file")
	if path == "" {
		paths, err := downloadDataset(c)
		if err != nil {
			return err
		}
		// The newest object sorts last.
		path = paths[len(paths)-1]
	}

	products, stats, err := importer.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	logger.Log.Info().
		Str("file", path).
		Int("rows", stats.Rows).
		Int("products", stats.Products).
		Int("skipped", stats.Skipped).
		Msg("Parsed dataset")

	if c.Bool("dry-run") {
		return nil
	}

	sqlDB, err := dbFromContext(c)
	if err != nil {
		return err
	}

	repo := postgres.NewCatalogRepository(postgres.Wrap(sqlx.NewDb(sqlDB, "pgx")))
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	written, err := repo.UpsertProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Log.Info().Int("written", written).Msg("Catalog seeding completed")
	return nil
}
