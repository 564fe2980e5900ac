// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/checkout"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/payment"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/pricing"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/purchase"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/upload"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/database/postgres"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/database/redis"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
	"github.com/Olowodarey/web3-ecommerce/internal/interfaces/http"
	"github.com/Olowodarey/web3-ecommerce/internal/interfaces/http/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	logger := newLogger(cfg)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.Printf("Warning: Index creation failed: %v", err)
	}
	if cfg.IsDevelopment() {
		migration.GetTableInfo()
	}

	// Build the service graph. Everything on-chain goes through the one
	// starknet client.
	chainClient := starknet.NewClient(cfg)

	productService := product.NewService(chainClient, cfg)
	cartService := cart.NewService(redisClient.GetClient(), productService, cfg)
	priceClient := pricing.NewClient(redisClient.GetClient(), cfg)
	calculator := payment.NewCalculator(cfg)
	allowanceChecker := checkout.NewAllowanceChecker(chainClient, cfg, logger)
	checkoutService := checkout.NewService(
		redisClient.GetClient(), cartService, priceClient, calculator,
		allowanceChecker, chainClient, cfg, logger,
	)
	defer checkoutService.Close()

	services := &routes.Services{
		Product:  productService,
		Cart:     cartService,
		Checkout: checkoutService,
		Purchase: purchase.NewService(chainClient, db.GetDB(), cfg, logger),
		Upload:   upload.NewService(db.GetDB(), cfg, logger),
	}

	// Keep the token price cache warm
	refresherCtx, cancelRefresher := context.WithCancel(context.Background())
	defer cancelRefresher()

	refresher := pricing.NewRefresher(priceClient, logger, cfg)
	go refresher.Start(refresherCtx)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), services)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
