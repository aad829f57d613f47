package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vitrine_back_end/internal/config"
	"vitrine_back_end/internal/handlers"
	"vitrine_back_end/internal/middleware"
)

// Register monte toutes les routes de l'API
func Register(r *gin.Engine, h *handlers.Handler, cfg config.Config, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	auth := middleware.AuthRequired([]byte(cfg.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		// Authentification
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", middleware.LoginRateLimit(rdb), h.Login)
		api.GET("/auth/profile", auth, h.Profile)

		// Catalogue
		api.GET("/products", h.GetProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", auth, middleware.RequireAdmin, h.CreateProduct)
		api.PUT("/products/:id", auth, middleware.RequireAdmin, h.UpdateProduct)
		api.PUT("/products/:id/stock", auth, middleware.RequireAdmin, h.RestockProduct)
		api.POST("/products/:id/image", auth, middleware.RequireAdmin, h.UploadProductImage)

		// Catégories
		api.GET("/categories", h.GetCategories)

		// Panier
		api.GET("/cart", auth, h.GetCart)
		api.POST("/cart/add", auth, h.AddToCart)
		api.DELETE("/cart/remove/:productId", auth, h.RemoveFromCart)
		api.DELETE("/cart/clear", auth, h.ClearCart)

		// Commandes
		api.POST("/orders", auth, h.PlaceOrder)
		api.GET("/orders", auth, h.GetMyOrders)
		api.GET("/orders/:id", auth, h.GetOrderByID)
	}
}
