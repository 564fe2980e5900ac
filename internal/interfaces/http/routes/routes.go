// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/checkout"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/purchase"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/upload"
	"github.com/Olowodarey/web3-ecommerce/internal/interfaces/http/handlers"
	"github.com/Olowodarey/web3-ecommerce/internal/interfaces/http/middleware"
)

// Services carries the domain services the HTTP layer exposes. They are
// constructed once at startup and shared across handlers.
type Services struct {
	Product  *product.Service
	Cart     *cart.Service
	Checkout *checkout.Service
	Purchase *purchase.Service
	Upload   *upload.Service
}

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, services *Services, cfg *config.Config) {
	setupProductRoutes(rg, services)
	setupCartRoutes(rg, services)
	setupCheckoutRoutes(rg, services)
	setupPurchaseRoutes(rg, services)
	setupAuthRoutes(rg, cfg)
	setupAdminRoutes(rg, services, cfg)
}

func setupProductRoutes(rg *gin.RouterGroup, services *Services) {
	productHandler := handlers.NewProductHandler(services.Product)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, services *Services) {
	cartHandler := handlers.NewCartHandler(services.Cart)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.POST("/items", cartHandler.AddToCart)
		carts.PUT("/items/:id", cartHandler.UpdateCartItem)
		carts.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, services *Services) {
	checkoutHandler := handlers.NewCheckoutHandler(services.Checkout)

	checkouts := rg.Group("/checkout")
	{
		checkouts.POST("/prepare", checkoutHandler.Prepare)
		checkouts.GET("/:id", checkoutHandler.GetSession)
		checkouts.POST("/:id/submitted", checkoutHandler.Submitted)
		checkouts.POST("/:id/rejected", checkoutHandler.Rejected)
	}
}

func setupPurchaseRoutes(rg *gin.RouterGroup, services *Services) {
	purchaseHandler := handlers.NewPurchaseHandler(services.Purchase)

	purchases := rg.Group("/purchases")
	{
		purchases.GET("", purchaseHandler.ListPurchases)
		purchases.GET("/:id/minted", purchaseHandler.GetMintStatus)
		purchases.GET("/:id/metadata", purchaseHandler.GetReceiptMetadata)
		purchases.POST("/:id/mint-call", purchaseHandler.BuildMintCall)
	}

	// Receipt artwork referenced by the NFT metadata image field.
	rg.GET("/receipts/image", purchaseHandler.ReceiptImage)
}

func setupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, services *Services, cfg *config.Config) {
	adminHandler := handlers.NewAdminHandler(services.Product)
	uploadHandler := handlers.NewUploadHandler(services.Upload)

	admin := rg.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg))
	{
		admin.POST("/products", adminHandler.BuildAddItemCall)
		admin.GET("/balance", adminHandler.GetBalance)
		admin.POST("/withdraw-call", adminHandler.BuildWithdrawCall)
		admin.POST("/uploads", uploadHandler.UploadImage)
		admin.GET("/uploads", uploadHandler.ListUploads)
	}
}
