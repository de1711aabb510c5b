package service

import (
	"context"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Bootstrap loads the catalog and the initial analysis concurrently. Both
// loads run to completion; the first error is returned.
func Bootstrap(ctx context.Context, catalogSvc *CatalogService, analysisSvc *AnalysisService, req domain.ForecastRequest) error {
	var g errgroup.Group

	g.Go(func() error {
		return catalogSvc.Load(ctx)
	})
	g.Go(func() error {
		_, err := analysisSvc.Analyze(ctx, req)
		return err
	})

	return g.Wait()
}
