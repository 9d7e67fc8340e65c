package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// The validation paths below reject before reaching the engine, so a nil
// engine is safe here; the engine's own behavior is covered in the service
// package tests.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(nil)
	router.GET("/orders/:id", h.getOrder)
	router.PUT("/orders/:id", h.updateOrderStatus)
	router.PUT("/orders/:id/tracking", h.updateOrderTracking)
	return router
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/orders/1",
		strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(),
		"Invalid status. Valid statuses: pending, confirmed, packed, dispatched, out for delivery, delivered, cancel")
}

func TestUpdateOrderStatusRejectsBadID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/orders/abc",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid order ID")
}

func TestUpdateOrderStatusRejectsMissingStatus(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/orders/1", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTrackingRequiresAtLeastOneField(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/orders/1/tracking",
		strings.NewReader(`{"send_notification":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tracking_url or tracking_id is required")
}

func TestGetOrderRejectsBadID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/orders/notanid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
