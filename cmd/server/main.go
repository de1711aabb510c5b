package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/api"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/cache"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/client"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/config"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/repository"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/report"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/service"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/storage"
	"github.com/andresuchdata/retail-forecast/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := dashboard.NewStore(dashboard.DefaultEnv())

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, forecast caching disabled")
		forecastCache = cache.NewNoopForecastCache()
	}

	var (
		catalogRepo   repository.CatalogRepository
		catalogSource service.CatalogSource
	)
	if cfg.Upstream.CatalogSource == config.CatalogSourcePostgres {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		catalogRepo = postgres.NewCatalogRepository(db)
		if err := catalogRepo.EnsureSchema(context.Background()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare catalog schema")
		}
		catalogSource = service.RepositorySource{Repo: catalogRepo}
	} else {
		catalogSource = client.NewCatalogClient(cfg.Upstream.CatalogURL, cfg.Upstream.Timeout())
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, report export disabled")
		} else {
			objects = minioClient
		}
	}

	analysisService := service.NewAnalysisService(
		client.NewForecastClient(cfg.Upstream.ForecastURL, cfg.Upstream.Timeout()),
		forecastCache,
		store,
		report.NewExporter(objects, cfg.Storage.ReportPrefix),
	)
	catalogService := service.NewCatalogService(catalogSource, catalogRepo, store)
	orderService := service.NewOrderService(store)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 2*cfg.Upstream.Timeout())
	if err := service.Bootstrap(bootCtx, catalogService, analysisService, store.Snapshot().Analysis.Request); err != nil {
		logger.Log.Warn().Err(err).Msg("Initial dashboard load incomplete")
	}
	cancelBoot()

	router := api.NewRouter(&api.Services{
		Store:           store,
		AnalysisService: analysisService,
		CatalogService:  catalogService,
		OrderService:    orderService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("catalog_source", cfg.Upstream.CatalogSource).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
