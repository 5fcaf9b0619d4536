package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/routes"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalln("failed to build logger:", err)
	}
	defer logger.Sync()

	client := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout, logger)
	engine := catalog.NewEngine(client, logger)
	categories := catalog.NewCategoryCache(client)
	ledger := cart.NewLedger()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Content-Type"},
	}))
	routes.RegisterRoutes(router, engine, categories, ledger, logger)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
