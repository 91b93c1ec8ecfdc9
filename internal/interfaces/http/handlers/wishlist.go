// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/wishlist"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	logger *logrus.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(log *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		logger: log,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	result := sess.Wishlist.Fetch(c.Request.Context())
	h.respondOp(c, result)
}

// AddItem handles POST /wishlist/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "A product id is required")
		return
	}

	result := sess.Wishlist.Add(c.Request.Context(), req.ProductID)
	h.respondOp(c, result)
}

// RemoveItem handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	result := sess.Wishlist.Remove(c.Request.Context(), c.Param("id"))
	h.respondOp(c, result)
}

// ToggleItem handles POST /wishlist/items/:id/toggle
func (h *WishlistHandler) ToggleItem(c *gin.Context) {
	sess, _ := middleware.SessionFromContext(c)

	result := sess.Wishlist.Toggle(c.Request.Context(), c.Param("id"))
	h.respondOp(c, result)
}

func (h *WishlistHandler) respondOp(c *gin.Context, result wishlist.OpResult) {
	if !result.Success {
		respondError(c, http.StatusBadRequest, result.Message)
		return
	}
	respondOK(c, result.Items, result.Message)
}
