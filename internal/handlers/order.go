package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/checkout"
	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/store"
)

// Header permettant au client de dédupliquer ses retries de checkout
const idempotencyHeader = "Idempotency-Key"

//
// 🔒 POST /api/orders — checkout
//
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		ShippingAddress models.Address `json:"shipping_address" binding:"required"`
		PaymentMethod   string         `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	orderID, err := h.checkout.PlaceOrder(c.Request.Context(), userID,
		req.ShippingAddress, req.PaymentMethod, c.GetHeader(idempotencyHeader))
	if err != nil {
		h.respondCheckoutError(c, userID, err)
		return
	}

	// 📤 Confirmation par email, jamais bloquante
	if h.mailer.Enabled() {
		if email := c.GetString("email"); email != "" {
			go h.sendOrderConfirmation(userID, email, orderID)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Commande créée avec succès",
		"order_id": orderID,
	})
}

// respondCheckoutError traduit la taxonomie d'erreurs du coordinateur
// en réponses HTTP. Aucune erreur n'est avalée : tout est loggué avec le
// contexte nécessaire pour reconstituer la transaction.
func (h *Handler) respondCheckoutError(c *gin.Context, userID string, err error) {
	var unavailable *checkout.ProductUnavailableError
	var insufficient *store.InsufficientStockError
	var storageErr *checkout.StorageUnavailableError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})

	case errors.As(err, &unavailable):
		log.Printf("⚠️ Checkout refusé pour user %s — produit indisponible %s", userID, unavailable.ProductID)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Produit indisponible",
			"product_id": unavailable.ProductID,
		})

	case errors.As(err, &insufficient):
		log.Printf("⚠️ Checkout refusé pour user %s — stock insuffisant %s (demandé %d, disponible %d)",
			userID, insufficient.ProductID, insufficient.Requested, insufficient.Available)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Stock insuffisant",
			"product_id": insufficient.ProductID,
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		})

	case errors.Is(err, store.ErrCartConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Panier modifié en parallèle, réessayez"})

	case errors.As(err, &storageErr):
		log.Printf("❌ Checkout échoué pour user %s — stockage indisponible: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporairement indisponible, réessayez"})

	default:
		log.Printf("❌ Checkout échoué pour user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
	}
}

func (h *Handler) sendOrderConfirmation(userID, email, orderID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		log.Printf("⚠️ Relecture commande %s pour confirmation échouée: %v", orderID, err)
		return
	}
	h.mailer.SendOrderConfirmation(email, order)
}

//
// 🔒 GET /api/orders — commandes de l'utilisateur, plus récentes d'abord
//
func (h *Handler) GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur lecture commandes de %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 🔒 GET /api/orders/:id
//
func (h *Handler) GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			// Même réponse qu'une commande d'un autre utilisateur
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture commande %s: %v", orderID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
