// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/cart"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/session"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	shipping *pricing.Provider
	logger   *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(shipping *pricing.Provider, log *logrus.Logger) *CartHandler {
	return &CartHandler{
		shipping: shipping,
		logger:   log,
	}
}

// AddItemRequest is the add-to-cart request body
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the update-quantity request body
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// cartView is the cart summary returned to the shopper: the snapshot
// plus the shared pricing breakdown.
type cartView struct {
	Cart    cart.Snapshot `json:"cart"`
	Pricing pricing.Quote `json:"pricing"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	// Refresh is fail-soft: a dead upstream serves the last snapshot.
	sess.Cart.FetchCart(c.Request.Context())

	respondOK(c, h.view(c, sess), "")
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	respondOK(c, gin.H{"count": sess.Cart.ItemCount()}, "")
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "A product id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result := sess.Cart.AddItem(c.Request.Context(), req.ProductID, req.Quantity)
	h.respondOp(c, sess, result)
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "A non-negative quantity is required")
		return
	}

	result := sess.Cart.UpdateItemQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	h.respondOp(c, sess, result)
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	result := sess.Cart.RemoveItem(c.Request.Context(), c.Param("id"))
	h.respondOp(c, sess, result)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	result := sess.Cart.Clear(c.Request.Context())
	h.respondOp(c, sess, result)
}

// respondOp converts a cart operation result into an envelope response
func (h *CartHandler) respondOp(c *gin.Context, sess *session.Session, result cart.OpResult) {
	if !result.Success {
		respondError(c, http.StatusBadRequest, result.Message)
		return
	}
	respondOK(c, h.view(c, sess), result.Message)
}

func (h *CartHandler) view(c *gin.Context, sess *session.Session) cartView {
	snapshot := sess.Cart.Snapshot()
	cfg := h.shipping.ShippingConfig(c.Request.Context())

	return cartView{
		Cart:    snapshot,
		Pricing: pricing.Calculate(snapshot.Subtotal(), cfg),
	}
}
