package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine_back_end/internal/models"
	"vitrine_back_end/internal/store"
)

//
// 🔒 GET /api/cart
//
func (h *Handler) GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	cart, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			c.JSON(http.StatusOK, gin.H{"cart": gin.H{"items": []models.CartItem{}, "total": 0}})
			return
		}
		log.Printf("❌ Erreur lecture panier %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

//
// 🔒 POST /api/cart/add
//
func (h *Handler) AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	// Sérialise les mutations du panier de cet utilisateur
	unlock := h.locks.Lock(userID)
	defer unlock()

	ctx := c.Request.Context()

	// 🧩 Vérifie le produit : existant, actif, stock suffisant
	product, err := h.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture produit %s: %v", input.ProductID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lecture produit"})
		return
	}
	if !product.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produit indisponible", "product_id": input.ProductID})
		return
	}
	if product.Stock < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Stock insuffisant",
			"product_id": input.ProductID,
			"requested":  input.Quantity,
			"available":  product.Stock,
		})
		return
	}

	cart, err := h.carts.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrCartNotFound) {
			log.Printf("❌ Erreur lecture panier %s: %v", userID, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lecture panier"})
			return
		}
		// Premier ajout : le panier sera créé à l'écriture
		cart = models.Cart{UserID: userID}
	}

	// 🖼️ Première image pour l'aperçu panier
	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	// Le prix est figé ici : les changements de prix catalogue
	// ultérieurs ne modifient ni le panier ni la future commande.
	cart.AddItem(models.CartItem{
		ProductID: input.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  input.Quantity,
		ImageURL:  imageURL,
	})

	if err := h.carts.Upsert(ctx, &cart); err != nil {
		if errors.Is(err, store.ErrCartConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Panier modifié en parallèle, réessayez"})
			return
		}
		log.Printf("❌ Erreur écriture panier %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur écriture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté au panier", "cart": cart})
}

//
// 🔒 DELETE /api/cart/remove/:productId
//
func (h *Handler) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	unlock := h.locks.Lock(userID)
	defer unlock()

	ctx := c.Request.Context()
	cart, err := h.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Panier introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture panier %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lecture panier"})
		return
	}

	cart.RemoveItem(productID)

	if err := h.carts.Upsert(ctx, &cart); err != nil {
		if errors.Is(err, store.ErrCartConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Panier modifié en parallèle, réessayez"})
			return
		}
		log.Printf("❌ Erreur écriture panier %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur écriture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé du panier", "cart": cart})
}

//
// 🧹 DELETE /api/cart/clear
//
func (h *Handler) ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	unlock := h.locks.Lock(userID)
	defer unlock()

	if err := h.carts.Delete(c.Request.Context(), userID); err != nil {
		log.Printf("❌ Erreur vidage panier %s: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}
