package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/report"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AnalysisHandler struct {
	service *service.AnalysisService
}

func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze handles POST /analysis/demand.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req domain.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest handles GET /analysis/latest.
func (h *AnalysisHandler) Latest(c *gin.Context) {
	result, err := h.service.Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export handles POST /analysis/export.
func (h *AnalysisHandler) Export(c *gin.Context) {
	var req domain.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	key, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, report.ErrStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// FlushCache handles DELETE /analysis/cache.
func (h *AnalysisHandler) FlushCache(c *gin.Context) {
	if err := h.service.FlushCache(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("forecast cache flush failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to flush forecast cache"})
		return
	}
	c.Status(http.StatusNoContent)
}

func respondAnalysisError(c *gin.Context, err error) {
	if isValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Msg("analysis request failed")
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   dashboard.AnalysisFailedMessage,
		"details": err.Error(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidYear) ||
		errors.Is(err, domain.ErrInvalidMonth) ||
		errors.Is(err, domain.ErrInvalidHolidays)
}
