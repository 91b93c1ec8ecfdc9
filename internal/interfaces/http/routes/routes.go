// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/catalog"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/pricing"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/session"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/handlers"
	"github.com/sunflower003/cocktail-miami-storefront/internal/interfaces/http/middleware"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/pdf"
)

// Deps bundles the collaborators the route handlers are built from
type Deps struct {
	Sessions *session.Manager
	Shipping *pricing.Provider
	Catalog  *catalog.Service
	PDF      *pdf.Service
	Logger   *logrus.Logger
}

// SetupAuthRoutes sets up session related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Logger)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/me", authHandler.Profile)
		}
	}
}

// SetupCatalogRoutes sets up product browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Deps) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Logger)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	rg.GET("/categories", catalogHandler.ListCategories)
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Shipping, deps.Logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.RequireAuth())
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Deps) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Shipping, deps.Logger)

	// The quote and shipping config are readable anonymously so the cart
	// page can price before login.
	rg.GET("/checkout/shipping-config", checkoutHandler.ShippingConfig)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.RequireAuth())
	{
		checkout.GET("/quote", checkoutHandler.Quote)
		checkout.POST("", checkoutHandler.Submit)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Deps) {
	orderHandler := handlers.NewOrderHandler(deps.PDF, deps.Logger)

	orders := rg.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/cancelled", orderHandler.GetCancelledOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
	}
}

// SetupWishlistRoutes sets up wishlist routes
func SetupWishlistRoutes(rg *gin.RouterGroup, deps Deps) {
	wishlistHandler := handlers.NewWishlistHandler(deps.Logger)

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.RequireAuth())
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/items", wishlistHandler.AddItem)
		wishlist.DELETE("/items/:id", wishlistHandler.RemoveItem)
		wishlist.POST("/items/:id/toggle", wishlistHandler.ToggleItem)
	}
}
