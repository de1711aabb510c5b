package api

import (
	"strings"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/api/handlers"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/api/middleware"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Store           *dashboard.Store
	AnalysisService *service.AnalysisService
	CatalogService  *service.CatalogService
	OrderService    *service.OrderService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", handlers.Health)

	if services == nil {
		return router
	}

	if services.Store != nil {
		sessionHandler := handlers.NewSessionHandler(services.Store)
		apiGroup.GET("/session", sessionHandler.GetSession)
	}

	if services.AnalysisService != nil {
		analysisHandler := handlers.NewAnalysisHandler(services.AnalysisService)
		analysisGroup := apiGroup.Group("/analysis")
		{
			analysisGroup.POST("/demand", analysisHandler.Analyze)
			analysisGroup.GET("/latest", analysisHandler.Latest)
			analysisGroup.POST("/export", analysisHandler.Export)
			analysisGroup.DELETE("/cache", analysisHandler.FlushCache)
		}
	}

	if services.CatalogService != nil {
		catalogHandler := handlers.NewCatalogHandler(services.CatalogService)
		apiGroup.GET("/data/products", catalogHandler.GetDataProducts)
		apiGroup.GET("/data/categories", catalogHandler.GetDataCategories)
		catalogGroup := apiGroup.Group("/catalog")
		{
			catalogGroup.GET("/categories", catalogHandler.GetCategories)
			catalogGroup.GET("/products", catalogHandler.GetProducts)
			catalogGroup.GET("/quick", catalogHandler.GetQuickProducts)
			catalogGroup.POST("/reload", catalogHandler.Reload)
		}
		apiGroup.GET("/reorder/suggest", catalogHandler.Suggest)

		if services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.OrderService, services.CatalogService)
			apiGroup.PUT("/reorder/period", orderHandler.SetPeriod)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.POST("", orderHandler.PlaceOrder)
				orderGroup.GET("/current", orderHandler.GetCurrent)
				orderGroup.DELETE("/current", orderHandler.Dismiss)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
