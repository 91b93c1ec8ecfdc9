// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/pdf"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	pdfService *pdf.Service
	logger     *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(pdfService *pdf.Service, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		pdfService: pdfService,
		logger:     log,
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	orders, err := sess.Orders.List(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, orders, "")
}

// GetOrder handles GET /orders/:id — the order-success view
func (h *OrderHandler) GetOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	o, err := sess.Orders.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, o, "")
}

// GetCancelledOrder handles GET /orders/:id/cancelled — the view a
// shopper lands on when the payment gateway redirects back after an
// abandoned payment. Loading it triggers the compensating cancel.
func (h *OrderHandler) GetCancelledOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	o, err := sess.Orders.LoadCancelled(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, o, "")
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	if err := sess.Orders.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, nil, "Order cancelled")
}

// GetReceipt handles GET /orders/:id/receipt — a PDF receipt download
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	o, err := sess.Orders.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	buf, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err.Error(),
		}).Error("Receipt generation failed")
		respondError(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
