// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/checkout"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	shipping *pricing.Provider
	logger   *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(shipping *pricing.Provider, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		shipping: shipping,
		logger:   log,
	}
}

// submitView is the submission outcome returned to the shopper. The QR
// PNG travels base64-encoded.
type submitView struct {
	State      checkout.FlowState `json:"state"`
	Order      interface{}        `json:"order,omitempty"`
	PaymentURL string             `json:"paymentUrl,omitempty"`
	PaymentQR  string             `json:"paymentQr,omitempty"`
}

// Quote handles GET /checkout/quote
func (h *CheckoutHandler) Quote(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	respondOK(c, sess.Checkout.Quote(c.Request.Context()), "")
}

// ShippingConfig handles GET /checkout/shipping-config
func (h *CheckoutHandler) ShippingConfig(c *gin.Context) {
	respondOK(c, h.shipping.ShippingConfig(c.Request.Context()), "")
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid checkout payload")
		return
	}

	result := sess.Checkout.Submit(c.Request.Context(), req)
	if !result.Success {
		respondError(c, http.StatusBadRequest, result.Message)
		return
	}

	view := submitView{
		State:      result.State,
		PaymentURL: result.PaymentURL,
	}
	if result.Order != nil {
		view.Order = result.Order
	}
	if len(result.PaymentQR) > 0 {
		view.PaymentQR = base64.StdEncoding.EncodeToString(result.PaymentQR)
	}

	respondOK(c, view, "")
}
