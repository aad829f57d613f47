package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vitrine_back_end/internal/models"
)

const (
	// Durée de vie des marqueurs de succès checkout : assez longue pour
	// couvrir n'importe quel retry client raisonnable.
	checkoutMarkerTTL = 24 * time.Hour

	productListKey = "products:all"
	productListTTL = 5 * time.Minute
)

// Cache — accès Redis typé : marqueurs d'idempotence checkout et cache
// de la liste produits. Le client est injecté, pas de variable globale.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// --- Marqueurs d'idempotence checkout ---

// Get retourne la commande associée à une clé d'idempotence, si un
// checkout a déjà abouti pour cette clé.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	orderID, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lecture marqueur %s: %w", key, err)
	}
	return orderID, true, nil
}

// Set enregistre le marqueur de succès d'un checkout
func (c *Cache) Set(ctx context.Context, key, orderID string) error {
	return c.rdb.Set(ctx, key, orderID, checkoutMarkerTTL).Err()
}

// Del retire un marqueur devenu inutile
func (c *Cache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// --- Cache produits ---

// GetProductList retourne la liste produits en cache, ok=false si absente
func (c *Cache) GetProductList(ctx context.Context) ([]models.Product, bool) {
	val, err := c.rdb.Get(ctx, productListKey).Result()
	if err != nil || val == "" {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetProductList met la liste produits en cache (best effort)
func (c *Cache) SetProductList(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, productListKey, data, productListTTL)
}

// InvalidateProducts purge le cache produits après une mutation catalogue
func (c *Cache) InvalidateProducts(ctx context.Context) {
	c.rdb.Del(ctx, productListKey)
}
