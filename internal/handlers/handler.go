package handlers

import (
	"context"

	"vitrine_back_end/internal/cache"
	"vitrine_back_end/internal/checkout"
	"vitrine_back_end/internal/config"
	"vitrine_back_end/internal/database"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/services"
	"vitrine_back_end/internal/store"
)

// CheckoutService — le coordinateur de checkout vu par le handler de
// commande. Interface pour pouvoir le remplacer en test.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID string, shipping models.Address, paymentMethod string, idemKey string) (string, error)
}

// Catalog — le store produits vu par les handlers
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	Insert(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product, prevCategory string) error
	IncrementStock(ctx context.Context, productID string, qty int) error
	AddImageURL(ctx context.Context, productID string, url string) error
}

// Handler porte toutes les dépendances des routes HTTP. Tout est
// injecté à la construction : aucun état global.
type Handler struct {
	cfg config.Config

	users      *store.UserStore
	catalog    Catalog
	carts      *store.CartStore
	orders     *store.OrderStore
	categories *store.CategoryStore

	cache    *cache.Cache
	checkout CheckoutService
	locks    *checkout.UserLocks

	search  *services.Search
	storage *services.Storage
	mailer  *services.Mailer

	db *database.Clients
}

func New(cfg config.Config, db *database.Clients, co *checkout.Coordinator,
	users *store.UserStore, catalog Catalog, carts *store.CartStore,
	orders *store.OrderStore, categories *store.CategoryStore, c *cache.Cache,
	search *services.Search, storage *services.Storage, mailer *services.Mailer) *Handler {
	return &Handler{
		cfg:        cfg,
		users:      users,
		catalog:    catalog,
		carts:      carts,
		orders:     orders,
		categories: categories,
		cache:      c,
		checkout:   co,
		locks:      co.Locks(),
		search:     search,
		storage:    storage,
		mailer:     mailer,
		db:         db,
	}
}
