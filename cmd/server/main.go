package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/checkout"
	"vitrine_back_end/internal/config"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/handlers"
	"vitrine_back_end/internal/routes"
	"vitrine_back_end/internal/services"
	"vitrine_back_end/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Impossible de se connecter aux bases de données: %v", err)
	}
	defer db.Close()

	// Stores — toutes les dépendances sont explicites, rien de global
	users := store.NewUserStore(db.Scylla)
	catalog := store.NewCatalogStore(db.Scylla)
	carts := store.NewCartStore(db.Scylla)
	orders := store.NewOrderStore(db.Scylla)
	categories := store.NewCategoryStore(db.Scylla)

	redisCache := cache.New(db.Redis)

	// Le coordinateur de checkout partage ses verrous par utilisateur
	// avec les handlers de panier
	coordinator := checkout.NewCoordinator(carts, catalog, orders, redisCache, checkout.NewUserLocks())

	search := services.NewSearch(db.Elastic)
	storage := services.NewStorage(db.MinIO, cfg.MinioBucket, cfg.MinioEndpoint, cfg.MinioUseSSL)
	mailer := services.NewMailer(cfg)

	h := handlers.New(cfg, db, coordinator, users, catalog, carts, orders, categories,
		redisCache, search, storage, mailer)

	r := gin.Default()
	routes.Register(r, h, cfg, db.Redis)

	log.Println("🚀 Serveur Vitrine lancé sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Arrêt du serveur: %v", err)
	}
}
