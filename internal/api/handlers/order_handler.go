package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/order"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/reorder"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders  *service.OrderService
	catalog *service.CatalogService
}

func NewOrderHandler(orders *service.OrderService, catalog *service.CatalogService) *OrderHandler {
	return &OrderHandler{orders: orders, catalog: catalog}
}

// placeOrderRequest keeps quantity raw; it is coerced like typed form input.
type placeOrderRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
	Quick     bool            `json:"quick"`
}

// quantityText returns the quantity as the operator would have typed it. A
// JSON string is unquoted; numbers keep their literal text.
func (r placeOrderRequest) quantityText() string {
	var text string
	if err := json.Unmarshal(r.Quantity, &text); err == nil {
		return text
	}
	return string(r.Quantity)
}

type reorderPeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PlaceOrder handles POST /orders.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.catalog.EnsureLoaded(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load products", "details": err.Error()})
		return
	}

	record, err := h.orders.Place(req.ProductID, reorder.ParseQuantity(req.quantityText()), req.Quick)
	if err != nil {
		if errors.Is(err, order.ErrInvalidQuantity) || errors.Is(err, order.ErrUnresolvedProduct) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// SetPeriod handles PUT /reorder/period.
func (h *OrderHandler) SetPeriod(c *gin.Context) {
	var req reorderPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	form, err := h.orders.SetPeriod(req.Year, req.Month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidYear) || errors.Is(err, domain.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set reorder period"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": form.Year, "month": form.Month})
}

// GetCurrent handles GET /orders/current.
func (h *OrderHandler) GetCurrent(c *gin.Context) {
	st := h.orders.Current()
	c.JSON(http.StatusOK, gin.H{"state": st.Phase, "order": st.Current})
}

// Dismiss handles DELETE /orders/current.
func (h *OrderHandler) Dismiss(c *gin.Context) {
	st, err := h.orders.Dismiss()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dismiss order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st.Phase, "order": st.Current})
}
