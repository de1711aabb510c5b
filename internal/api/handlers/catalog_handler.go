package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ensureLoaded answers 502 and returns false when the catalog is unavailable.
func (h *CatalogHandler) ensureLoaded(c *gin.Context) bool {
	if err := h.service.EnsureLoaded(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("catalog unavailable")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   dashboard.CatalogFailedMessage,
			"details": err.Error(),
		})
		return false
	}
	return true
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.service.Categories())
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	category := strings.TrimSpace(c.Query("category"))
	c.JSON(http.StatusOK, h.service.Products(category))
}

func (h *CatalogHandler) GetQuickProducts(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.service.QuickProducts())
}

func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.service.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   dashboard.CatalogFailedMessage,
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": h.service.Categories()})
}

func (h *CatalogHandler) Suggest(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	productID := strings.TrimSpace(c.Query("product_id"))
	qty, err := h.service.Suggest(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "suggested_quantity": qty})
}

// GetDataProducts serves the database catalog in the upstream wire shape.
func (h *CatalogHandler) GetDataProducts(c *gin.Context) {
	products, err := h.service.ServedProducts(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotServed) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to list catalog products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetDataCategories serves the distinct categories from the database.
func (h *CatalogHandler) GetDataCategories(c *gin.Context) {
	cats, err := h.service.ServedCategories(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotServed) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to list catalog categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, cats)
}
