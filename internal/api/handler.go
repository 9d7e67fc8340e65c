package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront-orders/internal/models"
	"storefront-orders/internal/service"
	"storefront-orders/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	engine *service.OrderStatusEngine
}

// NewHandler creates a new HTTP handler
func NewHandler(engine *service.OrderStatusEngine) *Handler {
	return &Handler{
		engine: engine,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/orders/:id", h.getOrder)
	router.PUT("/orders/:id", h.updateOrderStatus)
	router.PUT("/orders/:id/tracking", h.updateOrderTracking)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// UpdateStatusRequest is the body of PUT /orders/:id
type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	TrackingURL string `json:"tracking_url,omitempty"`
	TrackingID  string `json:"tracking_id,omitempty"`
}

// UpdateTrackingRequest is the body of PUT /orders/:id/tracking
type UpdateTrackingRequest struct {
	TrackingURL      string `json:"tracking_url,omitempty"`
	TrackingID       string `json:"tracking_id,omitempty"`
	SendNotification bool   `json:"send_notification"`
}

func invalidStatusMessage() string {
	return fmt.Sprintf("Invalid status. Valid statuses: %s", models.ValidStatusList)
}

// updateOrderStatus handles a status-change request
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	status, ok := models.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": invalidStatusMessage(),
		})
		return
	}

	order, err := h.engine.Transition(c.Request.Context(), orderID, status, req.TrackingURL, req.TrackingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": invalidStatusMessage(),
			})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update order",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// updateOrderTracking handles a tracking-only update
func (h *Handler) updateOrderTracking(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.TrackingURL == "" && req.TrackingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "tracking_url or tracking_id is required",
		})
		return
	}

	order, err := h.engine.UpdateTracking(c.Request.Context(), orderID, req.TrackingURL, req.TrackingID, req.SendNotification)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrackingRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "tracking_url or tracking_id is required",
			})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update order",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	order, items, err := h.engine.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
