package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, engine *catalog.Engine, categories *catalog.CategoryCache, ledger *cart.Ledger, log *zap.Logger) {
	catalogHandler := handlers.NewCatalogHandler(engine, categories, log)
	cartHandler := handlers.NewCartHandler(ledger, engine, log)
	checkoutHandler := handlers.NewCheckoutHandler(ledger, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/products", catalogHandler.ListProducts)
		v1.GET("/products/:id", catalogHandler.GetProduct)
		v1.GET("/categories", catalogHandler.ListCategories)

		v1.PUT("/query/search", catalogHandler.SetSearchTerm)
		v1.PUT("/query/category", catalogHandler.SetCategory)
		v1.PUT("/query/sort", catalogHandler.SetSortKey)
		v1.PUT("/query/price-range", catalogHandler.SetPriceRange)
		v1.PUT("/query/page", catalogHandler.SetPage)
		v1.DELETE("/query", catalogHandler.ClearFilters)

		v1.GET("/cart", cartHandler.GetCart)
		v1.POST("/cart/items", cartHandler.AddItem)
		v1.PATCH("/cart/items/:id", cartHandler.UpdateQuantity)
		v1.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		v1.DELETE("/cart", cartHandler.ClearCart)

		v1.POST("/checkout", checkoutHandler.Checkout)
	}
}
