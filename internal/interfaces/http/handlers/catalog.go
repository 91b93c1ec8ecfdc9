// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/catalog"
)

// CatalogHandler handles product browsing endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	logger         *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         log,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := catalog.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = v
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, page, "")
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, product, "")
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	respondOK(c, categories, "")
}
